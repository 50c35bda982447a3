package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia/internal/audit"
	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/domain/caja"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/usecase"
)

// ======================================================
// INPUT
// ======================================================

type ChangeStatusInput struct {
	Actor         Actor
	AppointmentID uint
	Status        string

	// Só valem para completed.
	PaymentMethod string
	AmountCents   *int64

	// Só vale para cancelled.
	Reason string
}

// ======================================================
// USE CASE (mover card no kanban)
// ======================================================

type ChangeStatus struct {
	repo  domain.Repository
	hooks usecase.Hooks
	now   func() time.Time
}

func NewChangeStatus(repo domain.Repository, hooks usecase.Hooks) *ChangeStatus {
	return &ChangeStatus{repo: repo, hooks: hooks, now: time.Now}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	target, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, in.Actor.BarbershopID)
	if err != nil {
		return nil, err
	}

	now := uc.now().In(timezone.Location(shop.Timezone))

	var (
		ap       *models.Appointment
		from     domain.Status
		movement *models.CashMovement
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = loadAppointment(ctx, tx, in.Actor, in.AppointmentID)
		if err != nil {
			return err
		}
		from = domain.Status(ap.Status)

		switch target {
		case domain.StatusCompleted:
			movement, err = uc.complete(ctx, tx, ap, in, now)
		case domain.StatusCancelled:
			err = domain.Cancel(ap, strings.TrimSpace(in.Reason), now)
		case domain.StatusPending:
			err = uc.restore(ctx, tx, shop, ap)
		}
		if err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	// --------------------------------------------------
	// Auditoria / tempo real / métricas
	// --------------------------------------------------
	actorID := in.Actor.UserID
	uc.hooks.Record(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &actorID,
		Action:       "appointment_" + string(target),
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"from": from, "to": target},
	})
	uc.hooks.Metrics.AppointmentStatusChanged(string(target))
	uc.hooks.Publish(ctx, shop.ID, realtime.TopicAppointmentUpdated, ap)

	if movement != nil {
		uc.hooks.Metrics.CashMovement(movement.Type)
		uc.hooks.Publish(ctx, shop.ID, realtime.TopicCajaMovement, movement)
	}

	return ap, nil
}

// complete fecha o turno e lança a entrada na caja na mesma transação.
func (uc *ChangeStatus) complete(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	in ChangeStatusInput,
	now time.Time,
) (*models.CashMovement, error) {
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	method, err := caja.NormalizeMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	amount := ap.PriceCents
	if in.AmountCents != nil {
		if *in.AmountCents < 0 {
			return nil, httperr.ErrBusiness("invalid_amount")
		}
		amount = *in.AmountCents
	}
	if amount <= 0 {
		// serviço gratuito: nada a lançar
		return nil, nil
	}

	branchKey := caja.BranchKey(ap.BranchID)
	if err := tx.LockCaja(ctx, ap.BarbershopID, branchKey); err != nil {
		return nil, err
	}

	// pago antes (MercadoPago ou lançamento manual): o turno fecha sem
	// segunda entrada
	paid, err := tx.HasIncomeForAppointment(ctx, ap.BarbershopID, ap.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, nil
	}

	closed, err := tx.IsCajaClosed(ctx, ap.BarbershopID, branchKey, now.Format(timezone.DateLayout))
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, httperr.ErrBusiness("caja_closed")
	}

	barberID := ap.BarberID
	appointmentID := ap.ID
	m := &models.CashMovement{
		BarbershopID:   ap.BarbershopID,
		BranchID:       ap.BranchID,
		RegisteredByID: in.Actor.UserID,
		BarberID:       &barberID,
		AppointmentID:  &appointmentID,
		Type:           caja.TypeIncome,
		Category:       caja.CategoryService,
		Method:         method,
		AmountCents:    amount,
		Description:    fmt.Sprintf("Turno #%d", ap.ID),
		OccurredAt:     now,
	}
	if err := caja.ValidateMovement(m); err != nil {
		return nil, err
	}
	if err := tx.CreateCashMovement(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// restore volta o card para pendente revalidando agenda e bloqueos.
func (uc *ChangeStatus) restore(
	ctx context.Context,
	tx domain.Repository,
	shop *models.Barbershop,
	ap *models.Appointment,
) error {
	if err := domain.Restore(ap); err != nil {
		return err
	}

	barber, err := loadBarber(ctx, tx, shop.ID, ap.BarberID)
	if err != nil {
		return err
	}

	return checkSlot(ctx, tx, shop, barber, domain.Interval(ap), ap.ID)
}

// ======================================================
// Atalhos (PATCH /cancel e /complete)
// ======================================================

type CancelAppointment struct {
	change *ChangeStatus
}

func NewCancelAppointment(change *ChangeStatus) *CancelAppointment {
	return &CancelAppointment{change: change}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {
	return uc.change.Execute(ctx, ChangeStatusInput{
		Actor:         actor,
		AppointmentID: appointmentID,
		Status:        string(domain.StatusCancelled),
		Reason:        reason,
	})
}

type CompleteAppointment struct {
	change *ChangeStatus
}

func NewCompleteAppointment(change *ChangeStatus) *CompleteAppointment {
	return &CompleteAppointment{change: change}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
	paymentMethod string,
	amountCents *int64,
) (*models.Appointment, error) {
	return uc.change.Execute(ctx, ChangeStatusInput{
		Actor:         actor,
		AppointmentID: appointmentID,
		Status:        string(domain.StatusCompleted),
		PaymentMethod: paymentMethod,
		AmountCents:   amountCents,
	})
}
