package appointment

import (
	"context"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/models"
)

// fakeRepo guarda tudo em memória; Transaction não tem rollback.
type fakeRepo struct {
	shops        map[uint]*models.Barbershop
	services     map[uint]*models.Service
	barbers      map[uint]*models.User
	clients      []*models.Client
	workingHours map[uint]map[int]*models.WorkingHours
	appointments map[uint]*models.Appointment
	bloqueos     map[uint]*models.Bloqueo
	closedDays   map[string]bool
	movements    []*models.CashMovement
	branches     map[uint]uint

	nextID    uint
	locks     int
	cajaLocks int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		shops:        map[uint]*models.Barbershop{},
		services:     map[uint]*models.Service{},
		barbers:      map[uint]*models.User{},
		workingHours: map[uint]map[int]*models.WorkingHours{},
		appointments: map[uint]*models.Appointment{},
		bloqueos:     map[uint]*models.Bloqueo{},
		closedDays:   map[string]bool{},
		branches:     map[uint]uint{},
		nextID:       100,
	}
}

func (r *fakeRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	if s, ok := r.shops[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetBarbershopBySlug(_ context.Context, slug string) (*models.Barbershop, error) {
	for _, s := range r.shops {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetService(_ context.Context, shopID, id uint) (*models.Service, error) {
	if s, ok := r.services[id]; ok && s.BarbershopID == shopID {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetBarber(_ context.Context, shopID, id uint) (*models.User, error) {
	if u, ok := r.barbers[id]; ok && u.BarbershopID == shopID {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) ListActiveBarbers(_ context.Context, shopID uint, branchID *uint) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.barbers {
		if u.BarbershopID != shopID || !u.Active {
			continue
		}
		if branchID != nil && (u.BranchID == nil || *u.BranchID != *branchID) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) LockBarber(context.Context, uint) error {
	r.locks++
	return nil
}

func (r *fakeRepo) GetOrCreateClient(_ context.Context, shopID uint, name, phone, email string) (*models.Client, error) {
	for _, c := range r.clients {
		if c.BarbershopID == shopID && c.Phone == phone {
			return c, nil
		}
	}
	c := &models.Client{ID: r.id(), BarbershopID: shopID, Name: name, Phone: phone, Email: email}
	r.clients = append(r.clients, c)
	return c, nil
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, barberID uint, weekday int) (*models.WorkingHours, error) {
	if wh, ok := r.workingHours[barberID][weekday]; ok {
		return wh, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) ListBusyAppointments(_ context.Context, barberID uint, start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if ap.BarberID != barberID || ap.ID == excludeID || ap.Status != string(domain.StatusPending) {
			continue
		}
		if ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = r.id()
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, shopID, id uint) (*models.Appointment, error) {
	if ap, ok := r.appointments[id]; ok && ap.BarbershopID == shopID {
		cp := *ap
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.Filter) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if ap.BarbershopID != f.BarbershopID {
			continue
		}
		if f.BarberID != nil && ap.BarberID != *f.BarberID {
			continue
		}
		if ap.StartTime.Before(f.From) || !ap.StartTime.Before(f.To) {
			continue
		}
		out = append(out, *ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeRepo) ListBloqueos(_ context.Context, f domain.BloqueoFilter) ([]models.Bloqueo, error) {
	out := []models.Bloqueo{}
	for _, b := range r.bloqueos {
		if b.BarbershopID != f.BarbershopID {
			continue
		}
		if f.FromDay != "" && b.Day < f.FromDay {
			continue
		}
		if f.ToDay != "" && b.Day > f.ToDay {
			continue
		}
		if f.BarberID != nil && b.BarberID != nil && *b.BarberID != *f.BarberID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeRepo) CreateBloqueo(_ context.Context, b *models.Bloqueo) error {
	b.ID = r.id()
	cp := *b
	r.bloqueos[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBloqueo(_ context.Context, shopID, id uint) (*models.Bloqueo, error) {
	if b, ok := r.bloqueos[id]; ok && b.BarbershopID == shopID {
		cp := *b
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) DeleteBloqueo(_ context.Context, b *models.Bloqueo) error {
	delete(r.bloqueos, b.ID)
	return nil
}

func (r *fakeRepo) IsCajaClosed(_ context.Context, _ uint, _ uint, day string) (bool, error) {
	return r.closedDays[day], nil
}

func (r *fakeRepo) CreateCashMovement(_ context.Context, m *models.CashMovement) error {
	m.ID = r.id()
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeRepo) GetBranch(_ context.Context, shopID, id uint) (*models.Branch, error) {
	if r.branches[id] != shopID {
		return nil, domain.ErrNotFound
	}
	return &models.Branch{ID: id, BarbershopID: shopID}, nil
}

func (r *fakeRepo) LockCaja(context.Context, uint, uint) error {
	r.cajaLocks++
	return nil
}

func (r *fakeRepo) HasIncomeForAppointment(_ context.Context, shopID, apID uint) (bool, error) {
	for _, m := range r.movements {
		if m.BarbershopID == shopID && m.AppointmentID != nil && *m.AppointmentID == apID &&
			m.Type == "income" && m.VoidedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
