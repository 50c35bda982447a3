package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberia/internal/audit"
	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/usecase"
)

type RescheduleInput struct {
	Actor         Actor
	AppointmentID uint

	Date string
	Time string
	// BarberID troca o barbeiro (só owner/admin).
	BarberID *uint
}

type RescheduleAppointment struct {
	repo  domain.Repository
	hooks usecase.Hooks
	now   func() time.Time
}

func NewRescheduleAppointment(repo domain.Repository, hooks usecase.Hooks) *RescheduleAppointment {
	return &RescheduleAppointment{repo: repo, hooks: hooks, now: time.Now}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.Actor.BarbershopID)
	if err != nil {
		return nil, err
	}

	start, err := parseStart(shop, in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if start.Before(uc.now()) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	var (
		ap   *models.Appointment
		prev domain.TimeRange
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = loadAppointment(ctx, tx, in.Actor, in.AppointmentID)
		if err != nil {
			return err
		}
		if domain.Status(ap.Status) != domain.StatusPending {
			return httperr.ErrBusiness("not_reschedulable")
		}
		prev = domain.Interval(ap)

		barberID := ap.BarberID
		if in.BarberID != nil && *in.BarberID != 0 && in.Actor.IsManager() {
			barberID = *in.BarberID
		}
		barber, err := loadBarber(ctx, tx, shop.ID, barberID)
		if err != nil {
			return err
		}

		duration := ap.EndTime.Sub(ap.StartTime)
		r := domain.TimeRange{Start: start, End: start.Add(duration)}

		if err := checkSlot(ctx, tx, shop, barber, r, ap.ID); err != nil {
			return err
		}

		ap.StartTime = r.Start
		ap.EndTime = r.End
		ap.BarberID = barber.ID
		ap.BranchID = barber.BranchID
		ap.Barber = *barber

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	actorID := in.Actor.UserID
	uc.hooks.Record(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &actorID,
		Action:       "appointment_rescheduled",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"from_start": prev.Start,
			"to_start":   ap.StartTime,
			"barber_id":  ap.BarberID,
		},
	})
	uc.hooks.Publish(ctx, shop.ID, realtime.TopicAppointmentRescheduled, ap)

	return ap, nil
}
