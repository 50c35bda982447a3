package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barberia/internal/domain/caja"
	"github.com/BruksfildServices01/barberia/internal/models"
)

type CajaGormRepository struct {
	db *gorm.DB
}

func NewCajaGormRepository(db *gorm.DB) *CajaGormRepository {
	return &CajaGormRepository{db: db}
}

func (r *CajaGormRepository) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CajaGormRepository{db: tx})
	})
}

func (r *CajaGormRepository) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	shop, err := getBarbershop(ctx, r.db, id)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return shop, nil
}

// --------------------------------------------------
// Movements
// --------------------------------------------------

func (r *CajaGormRepository) CreateMovement(ctx context.Context, m *models.CashMovement) error {
	return createCashMovement(ctx, r.db, m)
}

func (r *CajaGormRepository) GetMovement(ctx context.Context, barbershopID, id uint) (*models.CashMovement, error) {
	var m models.CashMovement
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &m, nil
}

func (r *CajaGormRepository) UpdateMovement(ctx context.Context, m *models.CashMovement) error {
	return r.db.WithContext(ctx).
		Model(m).
		Select("voided_at", "voided_by_id", "void_reason").
		Updates(m).Error
}

func (r *CajaGormRepository) ListMovements(ctx context.Context, f domain.MovementFilter) ([]models.CashMovement, error) {
	q := r.db.WithContext(ctx).
		Where("barbershop_id = ?", f.BarbershopID).
		Where("occurred_at >= ? AND occurred_at < ?", f.From, f.To)

	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	if !f.IncludeVoided {
		q = q.Where("voided_at IS NULL")
	}

	var out []models.CashMovement
	if err := q.Order("occurred_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Closings
// --------------------------------------------------

func (r *CajaGormRepository) IsClosed(ctx context.Context, barbershopID, branchID uint, day string) (bool, error) {
	return cajaClosed(ctx, r.db, barbershopID, branchID, day)
}

func (r *CajaGormRepository) CreateClosing(ctx context.Context, c *models.CashClosing) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CajaGormRepository) ListClosings(ctx context.Context, f domain.ClosingFilter) ([]models.CashClosing, error) {
	q := r.db.WithContext(ctx).Where("barbershop_id = ?", f.BarbershopID)

	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.FromDay != "" {
		q = q.Where("day >= ?", f.FromDay)
	}
	if f.ToDay != "" {
		q = q.Where("day <= ?", f.ToDay)
	}

	var out []models.CashClosing
	if err := q.Order("day DESC").Limit(400).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Trava e escopo
// --------------------------------------------------

func (r *CajaGormRepository) LockCaja(ctx context.Context, barbershopID, branchID uint) error {
	return notFound(lockCaja(ctx, r.db, barbershopID, branchID), domain.ErrNotFound)
}

func (r *CajaGormRepository) GetBarber(ctx context.Context, barbershopID, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Select("id", "barbershop_id", "branch_id", "active").
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&u).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *CajaGormRepository) GetAppointment(ctx context.Context, barbershopID, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *CajaGormRepository) HasIncomeForAppointment(ctx context.Context, barbershopID, appointmentID uint) (bool, error) {
	return hasIncomeForAppointment(ctx, r.db, barbershopID, appointmentID)
}

var _ domain.Repository = (*CajaGormRepository)(nil)
