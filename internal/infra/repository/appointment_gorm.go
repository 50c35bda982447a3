package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	shop, err := getBarbershop(ctx, r.db, id)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return shop, nil
}

func (r *AppointmentGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &shop, nil
}

// --------------------------------------------------
// Catalog / staff
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&svc).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", barberID, barbershopID).
		First(&u).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *AppointmentGormRepository) GetBranch(
	ctx context.Context,
	barbershopID uint,
	branchID uint,
) (*models.Branch, error) {

	b, err := getBranch(ctx, r.db, barbershopID, branchID)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return b, nil
}

func (r *AppointmentGormRepository) ListActiveBarbers(
	ctx context.Context,
	barbershopID uint,
	branchID *uint,
) ([]models.User, error) {

	q := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND active = ?", barbershopID, true)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}

	var users []models.User
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *AppointmentGormRepository) LockBarber(
	ctx context.Context,
	barberID uint,
) error {

	var u models.User
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&u, barberID).Error
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	barbershopID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}

	// Dois agendamentos simultâneos do mesmo cliente: o segundo só relê.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barbershop_id"}, {Name: "phone"}},
			DoNothing: true,
		}).
		Create(&client).Error; err != nil {
		return nil, err
	}

	if client.ID == 0 {
		if err := r.db.WithContext(ctx).
			Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
			First(&client).Error; err != nil {
			return nil, err
		}
	}

	return &client, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &wh, nil
}

func (r *AppointmentGormRepository) ListBusyAppointments(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where(
			"barber_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			barberID, string(domain.StatusPending), end, start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Barber").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND barbershop_id = ?", appointmentID, barbershopID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Barber").
		Where("barbershop_id = ?", f.BarbershopID)

	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if !f.From.IsZero() {
		q = q.Where("start_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("start_time < ?", f.To)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Bloqueos
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBloqueos(
	ctx context.Context,
	f domain.BloqueoFilter,
) ([]models.Bloqueo, error) {

	q := r.db.WithContext(ctx).Where("barbershop_id = ?", f.BarbershopID)

	// Um filtro por barbeiro também traz os bloqueos gerais (barber_id nulo).
	if f.BarberID != nil {
		q = q.Where("(barber_id = ? OR barber_id IS NULL)", *f.BarberID)
	}
	if f.BranchID != nil {
		q = q.Where("(branch_id = ? OR branch_id IS NULL)", *f.BranchID)
	}
	if f.FromDay != "" {
		q = q.Where("day >= ?", f.FromDay)
	}
	if f.ToDay != "" {
		q = q.Where("day <= ?", f.ToDay)
	}

	var out []models.Bloqueo
	if err := q.Order("day ASC, start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) CreateBloqueo(ctx context.Context, b *models.Bloqueo) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *AppointmentGormRepository) GetBloqueo(
	ctx context.Context,
	barbershopID uint,
	id uint,
) (*models.Bloqueo, error) {

	var b models.Bloqueo
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&b).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &b, nil
}

func (r *AppointmentGormRepository) DeleteBloqueo(ctx context.Context, b *models.Bloqueo) error {
	return r.db.WithContext(ctx).Delete(b).Error
}

// --------------------------------------------------
// Caja
// --------------------------------------------------

func (r *AppointmentGormRepository) IsCajaClosed(
	ctx context.Context,
	barbershopID uint,
	branchID uint,
	day string,
) (bool, error) {
	return cajaClosed(ctx, r.db, barbershopID, branchID, day)
}

func (r *AppointmentGormRepository) CreateCashMovement(
	ctx context.Context,
	m *models.CashMovement,
) error {
	return createCashMovement(ctx, r.db, m)
}

func (r *AppointmentGormRepository) LockCaja(
	ctx context.Context,
	barbershopID uint,
	branchID uint,
) error {
	return notFound(lockCaja(ctx, r.db, barbershopID, branchID), domain.ErrNotFound)
}

func (r *AppointmentGormRepository) HasIncomeForAppointment(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (bool, error) {
	return hasIncomeForAppointment(ctx, r.db, barbershopID, appointmentID)
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
