package stats

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberia/internal/httperr"
)

func query(branch *uint) Query {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return Query{BarbershopID: 1, BranchID: branch, From: from, To: from.AddDate(0, 1, 0)}
}

func TestCashTotalsQuery(t *testing.T) {
	sql, args, err := cashTotalsQuery(query(nil)).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM cash_movements")
	assert.Contains(t, sql, "voided_at IS NULL")
	assert.Contains(t, sql, "GROUP BY type")
	assert.NotContains(t, sql, "branch_id")
	assert.Len(t, args, 3)

	branch := uint(3)
	sql, args, err = cashTotalsQuery(query(&branch)).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "branch_id = ?")
	assert.Equal(t, uint(3), args[len(args)-1])
}

func TestTopServicesQuery(t *testing.T) {
	sql, args, err := topServicesQuery(query(nil)).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "JOIN services s ON s.id = a.service_id")
	assert.Contains(t, sql, "ORDER BY revenue_cents DESC")
	assert.Contains(t, sql, "LIMIT 5")
	assert.Contains(t, args, "completed")
}

func TestAppointmentQueriesAreTenantScoped(t *testing.T) {
	for name, b := range map[string]sq.SelectBuilder{
		"status":  statusCountsQuery(query(nil)),
		"barbers": barberStatsQuery(query(nil)),
		"clients": newClientsQuery(query(nil)),
	} {
		sql, _, err := b.ToSql()
		require.NoError(t, err, name)
		assert.Regexp(t, `barbershop_id = \?`, sql, name)
	}
}

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("America/Argentina/Buenos_Aires", "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, 3, from.UTC().Hour())
	assert.Equal(t, "2026-04-01", to.Format("2006-01-02"))

	_, _, err = ParseRange("UTC", "2026-03-31", "2026-03-01")
	assert.True(t, httperr.IsBusiness(err, "invalid_range"))

	_, _, err = ParseRange("UTC", "2024-01-01", "2026-01-01")
	assert.True(t, httperr.IsBusiness(err, "range_too_large"))
}
