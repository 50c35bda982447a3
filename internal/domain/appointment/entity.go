package appointment

import (
	"time"

	"github.com/BruksfildServices01/barberia/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelReason = reason
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Restore devolve um turno cancelado para pendente. Quem chama precisa
// revalidar conflitos e bloqueios antes de salvar.
func Restore(ap *models.Appointment) error {
	if err := CanTransition(Status(ap.Status), StatusPending); err != nil {
		return err
	}

	ap.Status = string(StatusPending)
	ap.CancelledAt = nil
	ap.CancelReason = ""
	return nil
}

func Interval(ap *models.Appointment) TimeRange {
	return TimeRange{Start: ap.StartTime, End: ap.EndTime}
}
