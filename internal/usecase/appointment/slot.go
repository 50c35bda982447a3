package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/timezone"
)

// ======================================================
// Validação de horário (compartilhada por criar, reagendar e restaurar)
// ======================================================

// checkSlot deve rodar dentro de uma transação: trava o barbeiro e só então
// procura conflitos.
func checkSlot(
	ctx context.Context,
	tx domain.Repository,
	shop *models.Barbershop,
	barber *models.User,
	r domain.TimeRange,
	excludeID uint,
) error {
	loc := timezone.Location(shop.Timezone)
	day := timezone.StartOfDay(r.Start.In(loc))

	// --------------------------------------------------
	// Expediente + almoço
	// --------------------------------------------------
	wh, err := tx.GetWorkingHours(ctx, barber.ID, int(day.Weekday()))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	sched, ok := domain.ScheduleFor(wh, day)
	if !ok || !sched.Fits(r) {
		return httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// Bloqueos
	// --------------------------------------------------
	bloqueos, err := tx.ListBloqueos(ctx, domain.BloqueoFilter{
		BarbershopID: shop.ID,
		FromDay:      day.Format(timezone.DateLayout),
		ToDay:        r.End.In(loc).Format(timezone.DateLayout),
	})
	if err != nil {
		return err
	}
	if domain.AnyOverlap(domain.BlockedRanges(bloqueos, barber.ID, barber.BranchID, loc), r) {
		return httperr.ErrBusiness("blocked_time")
	}

	// --------------------------------------------------
	// Conflito com outros turnos pendentes
	// --------------------------------------------------
	if err := tx.LockBarber(ctx, barber.ID); err != nil {
		return err
	}

	busy, err := tx.ListBusyAppointments(ctx, barber.ID, r.Start, r.End, excludeID)
	if err != nil {
		return err
	}
	if len(busy) > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

// isSlotError indica falhas de agenda que permitem tentar outro barbeiro.
func isSlotError(err error) bool {
	return httperr.IsBusiness(err, "outside_working_hours") ||
		httperr.IsBusiness(err, "blocked_time") ||
		httperr.IsBusiness(err, "time_conflict")
}

// mapConflict traduz a violação da exclusion constraint para o código de negócio.
func mapConflict(err error) error {
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

func loadBarber(ctx context.Context, repo domain.Repository, shopID, barberID uint) (*models.User, error) {
	barber, err := repo.GetBarber(ctx, shopID, barberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
		return nil, err
	}
	if !barber.Active {
		return nil, httperr.ErrBusiness("barber_not_found")
	}
	return barber, nil
}

func loadService(ctx context.Context, repo domain.Repository, shopID, serviceID uint) (*models.Service, error) {
	svc, err := repo.GetService(ctx, shopID, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if !svc.Active || svc.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return svc, nil
}

// loadAppointment aplica o escopo do barbeiro: fora da própria agenda o
// turno simplesmente não existe.
func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, actor.BarbershopID, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}
	if !actor.IsManager() && ap.BarberID != actor.UserID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, nil
}

func parseStart(shop *models.Barbershop, date, clock string) (time.Time, error) {
	start, err := timezone.ParseDateTime(shop.Timezone, date, clock)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return start, nil
}

func durationOf(svc *models.Service) time.Duration {
	return time.Duration(svc.DurationMin) * time.Minute
}
