package stats

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const topServicesLimit = 5

type Query struct {
	BarbershopID uint
	BranchID     *uint
	From         time.Time
	To           time.Time
}

// As consultas usam o placeholder "?" padrão do squirrel, que o gorm.Raw
// converte para o dialeto do Postgres.

func cashTotalsQuery(q Query) sq.SelectBuilder {
	b := sq.Select("type", "COALESCE(SUM(amount_cents), 0) AS total").
		From("cash_movements").
		Where(sq.Eq{"barbershop_id": q.BarbershopID}).
		Where("voided_at IS NULL").
		Where(sq.GtOrEq{"occurred_at": q.From}).
		Where(sq.Lt{"occurred_at": q.To}).
		GroupBy("type")

	if q.BranchID != nil {
		b = b.Where(sq.Eq{"branch_id": *q.BranchID})
	}
	return b
}

func statusCountsQuery(q Query) sq.SelectBuilder {
	return appointmentScope(
		sq.Select("a.status AS status", "COUNT(*) AS total").
			From("appointments a").
			GroupBy("a.status"),
		q,
	)
}

func topServicesQuery(q Query) sq.SelectBuilder {
	return appointmentScope(
		sq.Select(
			"s.id AS service_id",
			"s.name AS name",
			"COUNT(a.id) AS count",
			"COALESCE(SUM(a.price_cents), 0) AS revenue_cents",
		).
			From("appointments a").
			Join("services s ON s.id = a.service_id").
			Where(sq.Eq{"a.status": "completed"}).
			GroupBy("s.id", "s.name").
			OrderBy("revenue_cents DESC").
			Limit(topServicesLimit),
		q,
	)
}

func barberStatsQuery(q Query) sq.SelectBuilder {
	return appointmentScope(
		sq.Select(
			"u.id AS barber_id",
			"u.name AS name",
			"COUNT(a.id) AS completed",
			"COALESCE(SUM(a.price_cents), 0) AS revenue_cents",
		).
			From("appointments a").
			Join("users u ON u.id = a.barber_id").
			Where(sq.Eq{"a.status": "completed"}).
			GroupBy("u.id", "u.name").
			OrderBy("revenue_cents DESC"),
		q,
	)
}

func newClientsQuery(q Query) sq.SelectBuilder {
	return sq.Select("COUNT(*)").
		From("clients").
		Where(sq.Eq{"barbershop_id": q.BarbershopID}).
		Where(sq.GtOrEq{"created_at": q.From}).
		Where(sq.Lt{"created_at": q.To})
}

func appointmentScope(b sq.SelectBuilder, q Query) sq.SelectBuilder {
	b = b.Where(sq.Eq{"a.barbershop_id": q.BarbershopID}).
		Where(sq.GtOrEq{"a.start_time": q.From}).
		Where(sq.Lt{"a.start_time": q.To})

	if q.BranchID != nil {
		b = b.Where(sq.Eq{"a.branch_id": *q.BranchID})
	}
	return b
}
