package bloqueo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/usecase"
	apuc "github.com/BruksfildServices01/barberia/internal/usecase/appointment"
)

const tz = "America/Argentina/Buenos_Aires"

// fakeRepo implementa só o que os casos de uso de bloqueo usam; o resto
// cai na interface embutida (nil) e entra em pânico se for chamado.
type fakeRepo struct {
	domain.Repository

	appointments []models.Appointment
	bloqueos     map[uint]*models.Bloqueo
	lastFilter   domain.BloqueoFilter
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	return &models.Barbershop{ID: id, Timezone: tz}, nil
}

func (r *fakeRepo) GetBarber(_ context.Context, _ uint, id uint) (*models.User, error) {
	if id == 99 {
		return nil, domain.ErrNotFound
	}
	return &models.User{ID: id, Active: true}, nil
}

// só a sucursal 3 pertence à barbearia 1
func (r *fakeRepo) GetBranch(_ context.Context, shopID, id uint) (*models.Branch, error) {
	if shopID != 1 || id != 3 {
		return nil, domain.ErrNotFound
	}
	return &models.Branch{ID: id, BarbershopID: shopID}, nil
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.Filter) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if f.BarberID != nil && ap.BarberID != *f.BarberID {
			continue
		}
		if ap.StartTime.Before(f.From) || !ap.StartTime.Before(f.To) {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (r *fakeRepo) CreateBloqueo(_ context.Context, b *models.Bloqueo) error {
	b.ID = uint(len(r.bloqueos) + 1)
	r.bloqueos[b.ID] = b
	return nil
}

func (r *fakeRepo) GetBloqueo(_ context.Context, _ uint, id uint) (*models.Bloqueo, error) {
	if b, ok := r.bloqueos[id]; ok {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) DeleteBloqueo(_ context.Context, b *models.Bloqueo) error {
	delete(r.bloqueos, b.ID)
	return nil
}

func (r *fakeRepo) ListBloqueos(_ context.Context, f domain.BloqueoFilter) ([]models.Bloqueo, error) {
	r.lastFilter = f
	return []models.Bloqueo{}, nil
}

type publisher struct{ topics []string }

func (p *publisher) Publish(_ context.Context, ev realtime.Event) error {
	p.topics = append(p.topics, ev.Topic)
	return nil
}

func pending(id, barber uint, clock string) models.Appointment {
	start, _ := timezone.ParseDateTime(tz, "2026-03-10", clock)
	return models.Appointment{
		ID: id, BarberID: barber, Status: string(domain.StatusPending),
		StartTime: start, EndTime: start.Add(30 * time.Minute),
	}
}

func newRepo() *fakeRepo {
	return &fakeRepo{
		bloqueos: map[uint]*models.Bloqueo{},
		appointments: []models.Appointment{
			pending(1, 10, "10:00"),
			pending(2, 10, "15:00"),
			pending(3, 11, "15:00"),
		},
	}
}

var (
	owner  = apuc.Actor{BarbershopID: 1, UserID: 5, Role: models.RoleOwner}
	barber = apuc.Actor{BarbershopID: 1, UserID: 10, Role: models.RoleBarber}
)

func TestCreateBloqueoReportsOverlaps(t *testing.T) {
	repo := newRepo()
	uc := NewCreateBloqueo(repo, usecase.Hooks{})

	_, err := uc.Execute(context.Background(), CreateInput{
		Actor:   owner,
		Day:     "2026-03-10",
		FullDay: true,
	})

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "bloqueo_overlaps_appointments", be.Code)
	assert.Equal(t, map[string]any{"appointment_ids": []uint{1, 2, 3}}, be.Details)
	assert.Empty(t, repo.bloqueos)
}

func TestCreateBloqueoRangeForBarber(t *testing.T) {
	repo := newRepo()
	pub := &publisher{}
	uc := NewCreateBloqueo(repo, usecase.Hooks{Events: pub})

	_, err := uc.Execute(context.Background(), CreateInput{
		Actor: barber, Day: "2026-03-10", StartTime: "14:30", EndTime: "15:15",
	})
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"appointment_ids": []uint{2}}, be.Details)

	b, err := uc.Execute(context.Background(), CreateInput{
		Actor: barber, Day: "2026-03-10", StartTime: "11:00", EndTime: "12:00", Reason: " médico ",
	})
	require.NoError(t, err)
	require.NotNil(t, b.BarberID)
	assert.Equal(t, uint(10), *b.BarberID)
	assert.Equal(t, "médico", b.Reason)
	assert.Equal(t, []string{realtime.TopicBloqueoCreated}, pub.topics)
}

func TestBarberCannotBlockOthers(t *testing.T) {
	repo := newRepo()
	other := uint(11)

	_, err := NewCreateBloqueo(repo, usecase.Hooks{}).Execute(context.Background(), CreateInput{
		Actor: barber, BarberID: &other, Day: "2026-03-11", FullDay: true,
	})
	assert.True(t, httperr.IsBusiness(err, "forbidden"))
}

func TestCreateBloqueoValidation(t *testing.T) {
	repo := newRepo()
	uc := NewCreateBloqueo(repo, usecase.Hooks{})
	ghost := uint(99)

	_, err := uc.Execute(context.Background(), CreateInput{Actor: owner, Day: "2026-03-11", StartTime: "10:00", EndTime: "09:00"})
	assert.True(t, httperr.IsBusiness(err, "invalid_range"))

	_, err = uc.Execute(context.Background(), CreateInput{Actor: owner, BarberID: &ghost, Day: "2026-03-11", FullDay: true})
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

func TestCreateBloqueoForeignBranch(t *testing.T) {
	repo := newRepo()
	uc := NewCreateBloqueo(repo, usecase.Hooks{})
	foreign, own := uint(77), uint(3)

	_, err := uc.Execute(context.Background(), CreateInput{Actor: owner, BranchID: &foreign, Day: "2026-03-11", FullDay: true})
	assert.True(t, httperr.IsBusiness(err, "branch_not_found"), "got %v", err)
	assert.Empty(t, repo.bloqueos)

	b, err := uc.Execute(context.Background(), CreateInput{Actor: owner, BranchID: &own, Day: "2026-03-11", FullDay: true})
	require.NoError(t, err)
	require.NotNil(t, b.BranchID)
	assert.Equal(t, own, *b.BranchID)
}

func TestDeleteBloqueoScope(t *testing.T) {
	repo := newRepo()
	other := uint(11)
	repo.bloqueos[1] = &models.Bloqueo{ID: 1, BarberID: &other, Day: "2026-03-12", FullDay: true}

	uc := NewDeleteBloqueo(repo, usecase.Hooks{})
	assert.True(t, httperr.IsBusiness(uc.Execute(context.Background(), barber, 1), "bloqueo_not_found"))
	require.NoError(t, uc.Execute(context.Background(), owner, 1))
	assert.Empty(t, repo.bloqueos)
}

func TestListBloqueosScopesBarber(t *testing.T) {
	repo := newRepo()
	uc := NewListBloqueos(repo)

	_, err := uc.Execute(context.Background(), barber, nil, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.BarberID)
	assert.Equal(t, uint(10), *repo.lastFilter.BarberID)

	_, err = uc.Execute(context.Background(), owner, nil, "01-03-2026", "")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}
