package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/dto"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/timezone"
)

// MaxCalendarDays limita o intervalo pedido pela tela de calendário.
const MaxCalendarDays = 62

type ListQuery struct {
	Actor    Actor
	BarberID *uint
	BranchID *uint
}

// ======================================================
// Dia / mês
// ======================================================

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	q ListQuery,
	date string,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, q.Actor.BarbershopID)
	if err != nil {
		return nil, err
	}

	start, err := timezone.ParseDate(shop.Timezone, date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	aps, err := uc.repo.ListAppointments(ctx, filterFor(q, start, start.AddDate(0, 0, 1)))
	if err != nil {
		return nil, err
	}
	return dto.NewAppointmentListSlice(aps), nil
}

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(repo domain.Repository) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	q ListQuery,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, q.Actor.BarbershopID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Location(shop.Timezone))

	aps, err := uc.repo.ListAppointments(ctx, filterFor(q, start, start.AddDate(0, 1, 0)))
	if err != nil {
		return nil, err
	}
	return dto.NewAppointmentListSlice(aps), nil
}

// ======================================================
// Calendário (turnos + bloqueos)
// ======================================================

type GetCalendar struct {
	repo domain.Repository
}

func NewGetCalendar(repo domain.Repository) *GetCalendar {
	return &GetCalendar{repo: repo}
}

func (uc *GetCalendar) Execute(
	ctx context.Context,
	q ListQuery,
	from string,
	to string,
) (*dto.CalendarDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, q.Actor.BarbershopID)
	if err != nil {
		return nil, err
	}

	start, err := timezone.ParseDate(shop.Timezone, from)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	last, err := timezone.ParseDate(shop.Timezone, to)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if last.Before(start) {
		return nil, httperr.ErrBusiness("invalid_range")
	}
	if start.AddDate(0, 0, MaxCalendarDays).Before(last) {
		return nil, httperr.ErrBusiness("range_too_large")
	}

	aps, err := uc.repo.ListAppointments(ctx, filterFor(q, start, last.AddDate(0, 0, 1)))
	if err != nil {
		return nil, err
	}

	barberID := q.Actor.ScopeBarber(q.BarberID)
	bloqueos, err := uc.repo.ListBloqueos(ctx, domain.BloqueoFilter{
		BarbershopID: shop.ID,
		BarberID:     barberID,
		BranchID:     q.BranchID,
		FromDay:      from,
		ToDay:        to,
	})
	if err != nil {
		return nil, err
	}

	return &dto.CalendarDTO{
		From:         from,
		To:           to,
		Appointments: dto.NewAppointmentListSlice(aps),
		Bloqueos:     bloqueos,
	}, nil
}

// ======================================================
// Kanban do dia
// ======================================================

type GetKanban struct {
	list *ListAppointmentsByDate
}

func NewGetKanban(repo domain.Repository) *GetKanban {
	return &GetKanban{list: NewListAppointmentsByDate(repo)}
}

func (uc *GetKanban) Execute(
	ctx context.Context,
	q ListQuery,
	date string,
) (*dto.KanbanDTO, error) {

	items, err := uc.list.Execute(ctx, q, date)
	if err != nil {
		return nil, err
	}

	board := &dto.KanbanDTO{Date: date}
	index := map[string]int{}
	for i, st := range domain.KanbanColumns() {
		index[string(st)] = i
		board.Columns = append(board.Columns, dto.KanbanColumnDTO{
			Status: string(st),
			Items:  []dto.AppointmentListDTO{},
		})
	}

	for _, it := range items {
		if i, ok := index[it.Status]; ok {
			board.Columns[i].Items = append(board.Columns[i].Items, it)
		}
	}

	return board, nil
}

func filterFor(q ListQuery, from, to time.Time) domain.Filter {
	return domain.Filter{
		BarbershopID: q.Actor.BarbershopID,
		BarberID:     q.Actor.ScopeBarber(q.BarberID),
		BranchID:     q.BranchID,
		From:         from,
		To:           to,
	}
}

// PublicView reduz o turno ao que o cliente pode ver.
func PublicView(ap *models.Appointment) dto.PublicAppointmentDTO {
	return dto.PublicAppointmentDTO{
		ID:          ap.ID,
		StartTime:   ap.StartTime,
		EndTime:     ap.EndTime,
		Status:      ap.Status,
		BarberName:  ap.Barber.Name,
		ServiceName: ap.Service.Name,
		PriceCents:  ap.PriceCents,
	}
}
