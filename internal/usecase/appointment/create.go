package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia/internal/audit"
	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/usecase"
	"github.com/BruksfildServices01/barberia/internal/validators"
)

const defaultMinAdvanceMinutes = 120

// ======================================================
// INPUT
// ======================================================

type ClientInput struct {
	Name  string
	Phone string
	Email string
}

type CreatePrivateAppointmentInput struct {
	Actor    Actor
	BarberID *uint

	Client    ClientInput
	ServiceID uint

	Date  string
	Time  string
	Notes string
}

type CreatePublicAppointmentInput struct {
	Slug string

	// BarberID 0 = primeiro barbeiro livre.
	BarberID uint
	BranchID *uint

	Client    ClientInput
	ServiceID uint

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASES
// ======================================================

type CreatePrivateAppointment struct {
	repo  domain.Repository
	hooks usecase.Hooks
	now   func() time.Time
}

func NewCreatePrivateAppointment(repo domain.Repository, hooks usecase.Hooks) *CreatePrivateAppointment {
	return &CreatePrivateAppointment{repo: repo, hooks: hooks, now: time.Now}
}

type CreatePublicAppointment struct {
	repo  domain.Repository
	hooks usecase.Hooks
	now   func() time.Time
}

func NewCreatePublicAppointment(repo domain.Repository, hooks usecase.Hooks) *CreatePublicAppointment {
	return &CreatePublicAppointment{repo: repo, hooks: hooks, now: time.Now}
}

// ======================================================
// EXECUTE (privado: equipe da barbearia)
// ======================================================

func (uc *CreatePrivateAppointment) Execute(
	ctx context.Context,
	in CreatePrivateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Barbearia e agenda alvo
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.Actor.BarbershopID)
	if err != nil {
		return nil, err
	}

	barberID := in.Actor.UserID
	if scoped := in.Actor.ScopeBarber(in.BarberID); scoped != nil {
		barberID = *scoped
	}

	barber, err := loadBarber(ctx, uc.repo, shop.ID, barberID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone da barbearia
	// --------------------------------------------------
	start, err := parseStart(shop, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	// A equipe pode encaixar em cima da hora, mas não no passado.
	if start.Before(uc.now()) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	client, err := normalizeClient(in.Client)
	if err != nil {
		return nil, err
	}

	svc, err := loadService(ctx, uc.repo, shop.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	ap, err := book(ctx, uc.repo, booking{
		shop:    shop,
		barber:  barber,
		service: svc,
		start:   start,
		client:  client,
		notes:   in.Notes,
		origin:  domain.OriginPrivate,
	})
	if err != nil {
		return nil, err
	}

	actorID := in.Actor.UserID
	notifyCreated(ctx, uc.hooks, ap, &actorID)
	return ap, nil
}

// ======================================================
// EXECUTE (público: link de reservas)
// ======================================================

func (uc *CreatePublicAppointment) Execute(
	ctx context.Context,
	in CreatePublicAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopBySlug(ctx, strings.ToLower(strings.TrimSpace(in.Slug)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("barbershop_not_found")
		}
		return nil, err
	}

	start, err := parseStart(shop, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Antecedência mínima
	// --------------------------------------------------
	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = defaultMinAdvanceMinutes
	}
	if start.Before(uc.now().Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	client, err := normalizeClient(in.Client)
	if err != nil {
		return nil, err
	}

	svc, err := loadService(ctx, uc.repo, shop.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Barbeiro escolhido ou o primeiro livre
	// --------------------------------------------------
	var candidates []models.User
	if in.BarberID != 0 {
		barber, err := loadBarber(ctx, uc.repo, shop.ID, in.BarberID)
		if err != nil {
			return nil, err
		}
		candidates = []models.User{*barber}
	} else {
		candidates, err = uc.repo.ListActiveBarbers(ctx, shop.ID, in.BranchID)
		if err != nil {
			return nil, err
		}
	}

	for i := range candidates {
		ap, err := book(ctx, uc.repo, booking{
			shop:    shop,
			barber:  &candidates[i],
			service: svc,
			start:   start,
			client:  client,
			notes:   in.Notes,
			origin:  domain.OriginPublic,
		})
		if err == nil {
			notifyCreated(ctx, uc.hooks, ap, nil)
			return ap, nil
		}
		if !isSlotError(err) || in.BarberID != 0 {
			return nil, err
		}
	}

	return nil, httperr.ErrBusiness("no_barber_available")
}

// ======================================================
// Helpers
// ======================================================

type booking struct {
	shop    *models.Barbershop
	barber  *models.User
	service *models.Service
	start   time.Time
	client  ClientInput
	notes   string
	origin  string
}

func book(ctx context.Context, repo domain.Repository, b booking) (*models.Appointment, error) {
	r := domain.TimeRange{Start: b.start, End: b.start.Add(durationOf(b.service))}

	var ap *models.Appointment
	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := checkSlot(ctx, tx, b.shop, b.barber, r, 0); err != nil {
			return err
		}

		client, err := tx.GetOrCreateClient(ctx, b.shop.ID, b.client.Name, b.client.Phone, b.client.Email)
		if err != nil {
			return err
		}

		ap = &models.Appointment{
			BarbershopID: b.shop.ID,
			BranchID:     b.barber.BranchID,
			BarberID:     b.barber.ID,
			ClientID:     client.ID,
			ServiceID:    b.service.ID,
			StartTime:    r.Start,
			EndTime:      r.End,
			Status:       string(domain.InitialStatus()),
			Origin:       b.origin,
			PriceCents:   b.service.PriceCents,
			Notes:        strings.TrimSpace(b.notes),
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		ap.Client = *client
		ap.Service = *b.service
		ap.Barber = *b.barber
		return nil
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	return ap, nil
}

func normalizeClient(in ClientInput) (ClientInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, httperr.ErrBusiness("client_name_required")
	}

	in.Phone = validators.NormalizePhone(in.Phone)
	if !validators.IsPhoneValid(in.Phone) {
		return in, httperr.ErrBusiness("invalid_phone")
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in, nil
}

func notifyCreated(ctx context.Context, hooks usecase.Hooks, ap *models.Appointment, userID *uint) {
	hooks.Record(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       userID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"origin":    ap.Origin,
			"barber_id": ap.BarberID,
			"start":     ap.StartTime,
		},
	})
	hooks.Metrics.AppointmentCreated(ap.Origin)
	hooks.Publish(ctx, ap.BarbershopID, realtime.TopicAppointmentCreated, ap)
}
