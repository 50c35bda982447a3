package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barberia/internal/domain/payment"
	"github.com/BruksfildServices01/barberia/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentGormRepository{db: tx})
	})
}

func (r *PaymentGormRepository) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	shop, err := getBarbershop(ctx, r.db, id)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return shop, nil
}

func (r *PaymentGormRepository) GetAppointment(ctx context.Context, barbershopID, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Client").
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *PaymentGormRepository) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *PaymentGormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentGormRepository) UpdatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaymentGormRepository) FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider = ? AND provider_payment_id = ?", domain.ProviderMercadoPago, providerPaymentID).
		First(&p).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *PaymentGormRepository) LatestPaymentForAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("appointment_id = ?", appointmentID).
		Order("id DESC").
		First(&p).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *PaymentGormRepository) IsCajaClosed(ctx context.Context, barbershopID, branchID uint, day string) (bool, error) {
	return cajaClosed(ctx, r.db, barbershopID, branchID, day)
}

func (r *PaymentGormRepository) CreateCashMovement(ctx context.Context, m *models.CashMovement) error {
	return createCashMovement(ctx, r.db, m)
}

func (r *PaymentGormRepository) LockCaja(ctx context.Context, barbershopID, branchID uint) error {
	return notFound(lockCaja(ctx, r.db, barbershopID, branchID), domain.ErrNotFound)
}

func (r *PaymentGormRepository) HasIncomeForAppointment(ctx context.Context, barbershopID, appointmentID uint) (bool, error) {
	return hasIncomeForAppointment(ctx, r.db, barbershopID, appointmentID)
}

var _ domain.Repository = (*PaymentGormRepository)(nil)
