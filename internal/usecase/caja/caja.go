package caja

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia/internal/audit"
	domain "github.com/BruksfildServices01/barberia/internal/domain/caja"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/usecase"
)

// ======================================================
// REGISTER
// ======================================================

type RegisterInput struct {
	BarbershopID uint
	UserID       uint

	BranchID      *uint
	BarberID      *uint
	AppointmentID *uint

	Type        string
	Category    string
	Method      string
	AmountCents int64
	Description string
	OccurredAt  *time.Time
}

type RegisterMovement struct {
	repo  domain.Repository
	hooks usecase.Hooks
	now   func() time.Time
}

func NewRegisterMovement(repo domain.Repository, hooks usecase.Hooks) *RegisterMovement {
	return &RegisterMovement{repo: repo, hooks: hooks, now: time.Now}
}

func (uc *RegisterMovement) Execute(ctx context.Context, in RegisterInput) (*models.CashMovement, error) {
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}
	if in.BranchID == nil || *in.BranchID == 0 {
		return nil, httperr.ErrBusiness("branch_required")
	}

	method, err := domain.NormalizeMethod(in.Method)
	if err != nil {
		return nil, err
	}

	occurred := uc.now()
	if in.OccurredAt != nil {
		occurred = *in.OccurredAt
	}
	occurred = occurred.In(timezone.Location(shop.Timezone))

	m := &models.CashMovement{
		BarbershopID:   shop.ID,
		BranchID:       in.BranchID,
		RegisteredByID: in.UserID,
		BarberID:       in.BarberID,
		AppointmentID:  in.AppointmentID,
		Type:           strings.ToLower(strings.TrimSpace(in.Type)),
		Category:       strings.TrimSpace(in.Category),
		Method:         method,
		AmountCents:    in.AmountCents,
		Description:    strings.TrimSpace(in.Description),
		OccurredAt:     occurred,
	}
	if err := domain.ValidateMovement(m); err != nil {
		return nil, err
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := lockBranch(ctx, tx, shop.ID, *m.BranchID); err != nil {
			return err
		}
		if err := checkRefs(ctx, tx, m); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, m); err != nil {
			return err
		}
		return tx.CreateMovement(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	uc.hooks.Record(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &in.UserID,
		Action:       "cash_movement_created",
		Entity:       "cash_movement",
		EntityID:     &m.ID,
		Metadata:     map[string]any{"type": m.Type, "method": m.Method, "amount_cents": m.AmountCents},
	})
	uc.hooks.Metrics.CashMovement(m.Type)
	uc.hooks.Publish(ctx, shop.ID, realtime.TopicCajaMovement, m)

	return m, nil
}

// lockBranch trava a caja da sucursal; sucursal de outra barbearia é
// tratada como inexistente.
func lockBranch(ctx context.Context, tx domain.Repository, barbershopID, branchID uint) error {
	if err := tx.LockCaja(ctx, barbershopID, branchID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("branch_not_found")
		}
		return err
	}
	return nil
}

// checkRefs confere que barbeiro e turno são da barbearia. Um turno só
// recebe uma entrada não estornada.
func checkRefs(ctx context.Context, tx domain.Repository, m *models.CashMovement) error {
	if m.BarberID != nil {
		if _, err := tx.GetBarber(ctx, m.BarbershopID, *m.BarberID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.ErrBusiness("barber_not_found")
			}
			return err
		}
	}

	if m.AppointmentID == nil {
		return nil
	}
	if _, err := tx.GetAppointment(ctx, m.BarbershopID, *m.AppointmentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("appointment_not_found")
		}
		return err
	}
	if m.Type != domain.TypeIncome {
		return nil
	}
	paid, err := tx.HasIncomeForAppointment(ctx, m.BarbershopID, *m.AppointmentID)
	if err != nil {
		return err
	}
	if paid {
		return httperr.ErrBusiness("appointment_already_paid")
	}
	return nil
}

// ensureOpen barra lançamentos num dia já fechado da sucursal.
func ensureOpen(ctx context.Context, tx domain.Repository, m *models.CashMovement) error {
	closed, err := tx.IsClosed(ctx, m.BarbershopID, domain.BranchKey(m.BranchID), m.OccurredAt.Format(timezone.DateLayout))
	if err != nil {
		return err
	}
	if closed {
		return httperr.ErrBusiness("caja_closed")
	}
	return nil
}

// ======================================================
// VOID
// ======================================================

type VoidMovement struct {
	repo  domain.Repository
	hooks usecase.Hooks
	now   func() time.Time
}

func NewVoidMovement(repo domain.Repository, hooks usecase.Hooks) *VoidMovement {
	return &VoidMovement{repo: repo, hooks: hooks, now: time.Now}
}

func (uc *VoidMovement) Execute(
	ctx context.Context,
	barbershopID uint,
	userID uint,
	movementID uint,
	reason string,
) (*models.CashMovement, error) {
	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(shop.Timezone)

	var m *models.CashMovement
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		m, err = tx.GetMovement(ctx, barbershopID, movementID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.ErrBusiness("movement_not_found")
			}
			return err
		}
		m.OccurredAt = m.OccurredAt.In(loc)

		if err := tx.LockCaja(ctx, barbershopID, domain.BranchKey(m.BranchID)); err != nil {
			return err
		}
		if err := domain.Void(m, userID, reason, uc.now()); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, m); err != nil {
			return err
		}
		return tx.UpdateMovement(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	uc.hooks.Record(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &userID,
		Action:       "cash_movement_voided",
		Entity:       "cash_movement",
		EntityID:     &m.ID,
		Metadata:     map[string]any{"reason": m.VoidReason},
	})
	uc.hooks.Publish(ctx, barbershopID, realtime.TopicCajaMovement, m)

	return m, nil
}

// ======================================================
// LIST / SUMMARY
// ======================================================

type Query struct {
	BarbershopID  uint
	BranchID      *uint
	From          string
	To            string
	Type          string
	Method        string
	IncludeVoided bool
}

type ListMovements struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListMovements(repo domain.Repository) *ListMovements {
	return &ListMovements{repo: repo, now: time.Now}
}

func (uc *ListMovements) Execute(ctx context.Context, q Query) ([]models.CashMovement, error) {
	f, err := uc.filter(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListMovements(ctx, f)
}

// filter converte datas civis (YYYY-MM-DD) no intervalo [from 00:00, to+1 00:00).
// Sem datas, usa o dia de hoje.
func (uc *ListMovements) filter(ctx context.Context, q Query) (domain.MovementFilter, error) {
	shop, err := uc.repo.GetBarbershopByID(ctx, q.BarbershopID)
	if err != nil {
		return domain.MovementFilter{}, err
	}

	today := uc.now().In(timezone.Location(shop.Timezone)).Format(timezone.DateLayout)
	from, to := q.From, q.To
	if from == "" {
		from = today
	}
	if to == "" {
		to = from
	}

	start, err := timezone.ParseDate(shop.Timezone, from)
	if err != nil {
		return domain.MovementFilter{}, httperr.ErrBusiness("invalid_date")
	}
	last, err := timezone.ParseDate(shop.Timezone, to)
	if err != nil {
		return domain.MovementFilter{}, httperr.ErrBusiness("invalid_date")
	}
	if last.Before(start) {
		return domain.MovementFilter{}, httperr.ErrBusiness("invalid_range")
	}

	if q.Type != "" && !domain.IsValidType(q.Type) {
		return domain.MovementFilter{}, httperr.ErrBusiness("invalid_movement_type")
	}
	if q.Method != "" && !domain.IsValidMethod(q.Method) {
		return domain.MovementFilter{}, httperr.ErrBusiness("invalid_payment_method")
	}

	return domain.MovementFilter{
		BarbershopID:  q.BarbershopID,
		BranchID:      q.BranchID,
		From:          start,
		To:            last.AddDate(0, 0, 1),
		Type:          q.Type,
		Method:        q.Method,
		IncludeVoided: q.IncludeVoided,
	}, nil
}

type GetSummary struct {
	list *ListMovements
}

func NewGetSummary(repo domain.Repository) *GetSummary {
	return &GetSummary{list: NewListMovements(repo)}
}

func (uc *GetSummary) Execute(ctx context.Context, q Query) (domain.Summary, error) {
	q.IncludeVoided = false
	q.Type, q.Method = "", ""

	movements, err := uc.list.Execute(ctx, q)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(movements), nil
}

// ======================================================
// CLOSE (cierre de caja)
// ======================================================

type CloseInput struct {
	BarbershopID     uint
	UserID           uint
	BranchID         uint
	Date             string
	OpeningCents     int64
	CountedCashCents int64
	Notes            string
}

type CloseCaja struct {
	repo  domain.Repository
	hooks usecase.Hooks
}

func NewCloseCaja(repo domain.Repository, hooks usecase.Hooks) *CloseCaja {
	return &CloseCaja{repo: repo, hooks: hooks}
}

func (uc *CloseCaja) Execute(ctx context.Context, in CloseInput) (*models.CashClosing, error) {
	if in.BranchID == 0 {
		return nil, httperr.ErrBusiness("branch_required")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(shop.Timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	var closing *models.CashClosing
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := lockBranch(ctx, tx, shop.ID, in.BranchID); err != nil {
			return err
		}

		closed, err := tx.IsClosed(ctx, shop.ID, in.BranchID, in.Date)
		if err != nil {
			return err
		}
		if closed {
			return httperr.ErrBusiness("already_closed")
		}

		branchID := in.BranchID
		movements, err := tx.ListMovements(ctx, domain.MovementFilter{
			BarbershopID: shop.ID,
			BranchID:     &branchID,
			From:         day,
			To:           day.AddDate(0, 0, 1),
		})
		if err != nil {
			return err
		}

		closing, err = domain.ComputeClosing(movements, in.OpeningCents, in.CountedCashCents)
		if err != nil {
			return err
		}
		closing.BarbershopID = shop.ID
		closing.BranchID = in.BranchID
		closing.Day = in.Date
		closing.ClosedByID = in.UserID
		closing.Notes = strings.TrimSpace(in.Notes)

		return tx.CreateClosing(ctx, closing)
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness("already_closed")
		}
		return nil, err
	}

	uc.hooks.Record(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &in.UserID,
		Action:       "caja_closed",
		Entity:       "cash_closing",
		EntityID:     &closing.ID,
		Metadata: map[string]any{
			"day":              closing.Day,
			"branch_id":        closing.BranchID,
			"difference_cents": closing.DifferenceCents,
		},
	})

	return closing, nil
}

type ListClosings struct {
	repo domain.Repository
}

func NewListClosings(repo domain.Repository) *ListClosings {
	return &ListClosings{repo: repo}
}

func (uc *ListClosings) Execute(ctx context.Context, f domain.ClosingFilter) ([]models.CashClosing, error) {
	for _, d := range []string{f.FromDay, f.ToDay} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(timezone.DateLayout, d); err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}
	return uc.repo.ListClosings(ctx, f)
}
