package stats

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/timezone"
)

const maxRangeDays = 366

type ServiceStat struct {
	ServiceID    uint   `json:"service_id"`
	Name         string `json:"name"`
	Count        int64  `json:"count"`
	RevenueCents int64  `json:"revenue_cents"`
}

type BarberStat struct {
	BarberID     uint   `json:"barber_id"`
	Name         string `json:"name"`
	Completed    int64  `json:"completed"`
	RevenueCents int64  `json:"revenue_cents"`
}

type Report struct {
	From string `json:"from"`
	To   string `json:"to"`

	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	NetCents     int64 `json:"net_cents"`

	AppointmentsByStatus map[string]int64 `json:"appointments_by_status"`
	TopServices          []ServiceStat    `json:"top_services"`
	Barbers              []BarberStat     `json:"barbers"`
	NewClients           int64            `json:"new_clients"`
}

type cashRow struct {
	Type  string
	Total int64
}

type statusRow struct {
	Status string
	Total  int64
}

// Reporter roda as agregações do painel em paralelo.
type Reporter struct {
	db *gorm.DB
}

func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db}
}

// ParseRange converte datas civis no intervalo [from 00:00, to+1 00:00) do fuso da barbearia.
func ParseRange(tz, from, to string) (time.Time, time.Time, error) {
	start, err := timezone.ParseDate(tz, from)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	last, err := timezone.ParseDate(tz, to)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	if last.Before(start) {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_range")
	}
	if start.AddDate(0, 0, maxRangeDays).Before(last) {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("range_too_large")
	}
	return start, last.AddDate(0, 0, 1), nil
}

func (r *Reporter) Report(ctx context.Context, q Query) (*Report, error) {
	var (
		cash       []cashRow
		statuses   []statusRow
		top        []ServiceStat
		barbers    []BarberStat
		newClients int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return r.scan(gctx, cashTotalsQuery(q), &cash) })
	g.Go(func() error { return r.scan(gctx, statusCountsQuery(q), &statuses) })
	g.Go(func() error { return r.scan(gctx, topServicesQuery(q), &top) })
	g.Go(func() error { return r.scan(gctx, barberStatsQuery(q), &barbers) })
	g.Go(func() error { return r.scan(gctx, newClientsQuery(q), &newClients) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		AppointmentsByStatus: map[string]int64{"pending": 0, "completed": 0, "cancelled": 0},
		TopServices:          nonNil(top),
		Barbers:              nonNil(barbers),
		NewClients:           newClients,
	}
	for _, c := range cash {
		switch c.Type {
		case "income":
			rep.IncomeCents = c.Total
		case "expense":
			rep.ExpenseCents = c.Total
		}
	}
	rep.NetCents = rep.IncomeCents - rep.ExpenseCents

	for _, s := range statuses {
		rep.AppointmentsByStatus[s.Status] = s.Total
	}

	return rep, nil
}

func (r *Reporter) scan(ctx context.Context, b sq.SelectBuilder, dest any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("stats: build query: %w", err)
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
