package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberia/internal/audit"
	apdomain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/domain/caja"
	domain "github.com/BruksfildServices01/barberia/internal/domain/payment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/payments"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/usecase"
)

// ======================================================
// LINK DE PAGAMENTO
// ======================================================

type CreatePaymentLink struct {
	repo    domain.Repository
	gateway payments.Gateway
	hooks   usecase.Hooks
}

func NewCreatePaymentLink(repo domain.Repository, gateway payments.Gateway, hooks usecase.Hooks) *CreatePaymentLink {
	return &CreatePaymentLink{repo: repo, gateway: gateway, hooks: hooks}
}

func (uc *CreatePaymentLink) Execute(
	ctx context.Context,
	barbershopID uint,
	userID uint,
	appointmentID uint,
) (*models.Payment, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payments_not_configured")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, barbershopID, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}
	if apdomain.Status(ap.Status) != apdomain.StatusPending || ap.PriceCents <= 0 {
		return nil, httperr.ErrBusiness("not_payable")
	}

	pref, err := uc.gateway.CreatePreference(ctx, payments.PreferenceInput{
		Title:             fmt.Sprintf("%s - %s", shop.Name, ap.Service.Name),
		AmountCents:       ap.PriceCents,
		Currency:          shop.Currency,
		ExternalReference: payments.AppointmentReference(ap.ID),
	})
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			return nil, httperr.ErrBusiness("payments_not_configured")
		}
		return nil, err
	}

	p := &models.Payment{
		BarbershopID:  barbershopID,
		AppointmentID: ap.ID,
		Provider:      domain.ProviderMercadoPago,
		PreferenceID:  pref.ID,
		InitPoint:     pref.InitPoint,
		Status:        payments.StatusPending,
		AmountCents:   ap.PriceCents,
	}
	if err := uc.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	uc.hooks.Record(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &userID,
		Action:       "payment_link_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"preference_id": pref.ID},
	})

	return p, nil
}

// ======================================================
// WEBHOOK (notificação de pagamento)
// ======================================================

type HandleNotification struct {
	repo    domain.Repository
	gateway payments.Gateway
	hooks   usecase.Hooks
	log     *zap.Logger
	now     func() time.Time
}

func NewHandleNotification(
	repo domain.Repository,
	gateway payments.Gateway,
	hooks usecase.Hooks,
	log *zap.Logger,
) *HandleNotification {
	if log == nil {
		log = zap.NewNop()
	}
	return &HandleNotification{repo: repo, gateway: gateway, hooks: hooks, log: log, now: time.Now}
}

// Execute é idempotente: a mesma notificação pode chegar várias vezes.
func (uc *HandleNotification) Execute(ctx context.Context, providerPaymentID string) error {
	if uc.gateway == nil {
		return httperr.ErrBusiness("payments_not_configured")
	}

	info, err := uc.gateway.GetPayment(ctx, providerPaymentID)
	if err != nil {
		return err
	}

	appointmentID, ok := payments.ParseAppointmentReference(info.ExternalReference)
	if !ok {
		uc.log.Info("mercadopago payment without appointment reference", zap.String("payment_id", info.ID))
		return nil
	}

	var movement *models.CashMovement

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		p, err := tx.FindPaymentByProviderID(ctx, info.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if p != nil && p.Status == payments.StatusApproved {
			return nil
		}

		ap, err := tx.GetAppointmentByID(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.log.Warn("mercadopago payment for unknown appointment",
					zap.String("payment_id", info.ID), zap.Uint("appointment_id", appointmentID))
				return nil
			}
			return err
		}

		if p == nil {
			p, err = tx.LatestPaymentForAppointment(ctx, ap.ID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		if p == nil {
			p = &models.Payment{
				BarbershopID:  ap.BarbershopID,
				AppointmentID: ap.ID,
				Provider:      domain.ProviderMercadoPago,
			}
		}

		p.ProviderPaymentID = info.ID
		p.Status = info.Status
		p.AmountCents = info.AmountCents

		if info.Status == payments.StatusApproved {
			movement, err = uc.registerIncome(ctx, tx, ap, info)
			if err != nil {
				return err
			}
		}

		if p.ID == 0 {
			return tx.CreatePayment(ctx, p)
		}
		return tx.UpdatePayment(ctx, p)
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			// outra entrega da mesma notificação já lançou a entrada
			return nil
		}
		return err
	}

	if movement != nil {
		uc.hooks.Record(audit.Event{
			BarbershopID: movement.BarbershopID,
			Action:       "payment_approved",
			Entity:       "appointment",
			EntityID:     movement.AppointmentID,
			Metadata:     map[string]any{"payment_id": info.ID, "amount_cents": info.AmountCents},
		})
		uc.hooks.Metrics.CashMovement(movement.Type)
		uc.hooks.Publish(ctx, movement.BarbershopID, realtime.TopicCajaMovement, movement)
	}

	return nil
}

func (uc *HandleNotification) registerIncome(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	info *payments.PaymentInfo,
) (*models.CashMovement, error) {
	shop, err := tx.GetBarbershopByID(ctx, ap.BarbershopID)
	if err != nil {
		return nil, err
	}
	now := uc.now().In(timezone.Location(shop.Timezone))

	branchKey := caja.BranchKey(ap.BranchID)
	if err := tx.LockCaja(ctx, ap.BarbershopID, branchKey); err != nil {
		return nil, err
	}

	paid, err := tx.HasIncomeForAppointment(ctx, ap.BarbershopID, ap.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		// turno já cobrado na caja; só o Payment é atualizado
		uc.log.Info("appointment already has a caja income, mercadopago income skipped",
			zap.String("payment_id", info.ID), zap.Uint("appointment_id", ap.ID))
		return nil, nil
	}

	closed, err := tx.IsCajaClosed(ctx, ap.BarbershopID, branchKey, now.Format(timezone.DateLayout))
	if err != nil {
		return nil, err
	}
	if closed {
		// o dinheiro entrou no MercadoPago; a caja do dia já foi fechada
		uc.log.Warn("mercadopago payment on closed caja day, income not registered",
			zap.String("payment_id", info.ID), zap.Uint("appointment_id", ap.ID))
		return nil, nil
	}

	ref := "mp:" + info.ID
	barberID := ap.BarberID
	appointmentID := ap.ID
	m := &models.CashMovement{
		BarbershopID:   ap.BarbershopID,
		BranchID:       ap.BranchID,
		RegisteredByID: ap.BarberID,
		BarberID:       &barberID,
		AppointmentID:  &appointmentID,
		Type:           caja.TypeIncome,
		Category:       caja.CategoryService,
		Method:         caja.MethodMercadoPago,
		AmountCents:    info.AmountCents,
		Description:    fmt.Sprintf("MercadoPago turno #%d", ap.ID),
		ExternalRef:    &ref,
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
