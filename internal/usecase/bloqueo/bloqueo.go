package bloqueo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia/internal/audit"
	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/usecase"
	apuc "github.com/BruksfildServices01/barberia/internal/usecase/appointment"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	Actor apuc.Actor

	// BarberID nil bloqueia a sucursal (ou a barbearia inteira).
	BarberID *uint
	BranchID *uint

	Day       string
	FullDay   bool
	StartTime string
	EndTime   string
	Reason    string
}

// ======================================================
// CREATE
// ======================================================

type CreateBloqueo struct {
	repo  domain.Repository
	hooks usecase.Hooks
}

func NewCreateBloqueo(repo domain.Repository, hooks usecase.Hooks) *CreateBloqueo {
	return &CreateBloqueo{repo: repo, hooks: hooks}
}

func (uc *CreateBloqueo) Execute(ctx context.Context, in CreateInput) (*models.Bloqueo, error) {
	shop, err := uc.repo.GetBarbershopByID(ctx, in.Actor.BarbershopID)
	if err != nil {
		return nil, err
	}

	// Barbeiro só bloqueia a própria agenda.
	barberID := in.BarberID
	if !in.Actor.IsManager() {
		if barberID != nil && *barberID != in.Actor.UserID {
			return nil, httperr.ErrBusiness("forbidden")
		}
		barberID = in.Actor.ScopeBarber(nil)
	}

	b := &models.Bloqueo{
		BarbershopID: shop.ID,
		BranchID:     in.BranchID,
		BarberID:     barberID,
		Day:          strings.TrimSpace(in.Day),
		FullDay:      in.FullDay,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Reason:       strings.TrimSpace(in.Reason),
		CreatedByID:  in.Actor.UserID,
	}

	if err := domain.ValidateBloqueo(b); err != nil {
		return nil, err
	}

	if b.BranchID != nil {
		if _, err := uc.repo.GetBranch(ctx, shop.ID, *b.BranchID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperr.ErrBusiness("branch_not_found")
			}
			return nil, err
		}
	}

	if barberID != nil {
		if _, err := uc.repo.GetBarber(ctx, shop.ID, *barberID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperr.ErrBusiness("barber_not_found")
			}
			return nil, err
		}
	}

	loc := timezone.Location(shop.Timezone)
	r, err := domain.BloqueoRange(*b, loc)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Turnos pendentes em cima do bloqueio
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		aps, err := tx.ListAppointments(ctx, domain.Filter{
			BarbershopID: shop.ID,
			BarberID:     barberID,
			From:         timezone.StartOfDay(r.Start),
			To:           r.End,
			Statuses:     []domain.Status{domain.StatusPending},
		})
		if err != nil {
			return err
		}

		if ids := overlapping(*b, aps, r); len(ids) > 0 {
			return httperr.ErrBusinessWithDetails("bloqueo_overlaps_appointments", map[string]any{
				"appointment_ids": ids,
			})
		}

		return tx.CreateBloqueo(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	actorID := in.Actor.UserID
	uc.hooks.Record(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &actorID,
		Action:       "bloqueo_created",
		Entity:       "bloqueo",
		EntityID:     &b.ID,
		Metadata:     map[string]any{"day": b.Day, "full_day": b.FullDay, "barber_id": b.BarberID},
	})
	uc.hooks.Publish(ctx, shop.ID, realtime.TopicBloqueoCreated, b)

	return b, nil
}

func overlapping(b models.Bloqueo, aps []models.Appointment, r domain.TimeRange) []uint {
	ids := []uint{}
	for i := range aps {
		ap := &aps[i]
		if domain.Status(ap.Status) != domain.StatusPending {
			continue
		}
		if !domain.AppliesTo(b, ap.BarberID, ap.BranchID) {
			continue
		}
		if domain.Interval(ap).Overlaps(r) {
			ids = append(ids, ap.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ======================================================
// DELETE
// ======================================================

type DeleteBloqueo struct {
	repo  domain.Repository
	hooks usecase.Hooks
}

func NewDeleteBloqueo(repo domain.Repository, hooks usecase.Hooks) *DeleteBloqueo {
	return &DeleteBloqueo{repo: repo, hooks: hooks}
}

func (uc *DeleteBloqueo) Execute(ctx context.Context, actor apuc.Actor, id uint) error {
	b, err := uc.repo.GetBloqueo(ctx, actor.BarbershopID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("bloqueo_not_found")
		}
		return err
	}

	if !actor.IsManager() && (b.BarberID == nil || *b.BarberID != actor.UserID) {
		return httperr.ErrBusiness("bloqueo_not_found")
	}

	if err := uc.repo.DeleteBloqueo(ctx, b); err != nil {
		return err
	}

	actorID := actor.UserID
	uc.hooks.Record(audit.Event{
		BarbershopID: actor.BarbershopID,
		UserID:       &actorID,
		Action:       "bloqueo_deleted",
		Entity:       "bloqueo",
		EntityID:     &b.ID,
	})
	uc.hooks.Publish(ctx, actor.BarbershopID, realtime.TopicBloqueoDeleted, map[string]uint{"id": b.ID})

	return nil
}

// ======================================================
// LIST
// ======================================================

type ListBloqueos struct {
	repo domain.Repository
}

func NewListBloqueos(repo domain.Repository) *ListBloqueos {
	return &ListBloqueos{repo: repo}
}

func (uc *ListBloqueos) Execute(
	ctx context.Context,
	actor apuc.Actor,
	barberID *uint,
	from string,
	to string,
) ([]models.Bloqueo, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(timezone.DateLayout, d); err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}

	return uc.repo.ListBloqueos(ctx, domain.BloqueoFilter{
		BarbershopID: actor.BarbershopID,
		BarberID:     actor.ScopeBarber(barberID),
		FromDay:      from,
		ToDay:        to,
	})
}
