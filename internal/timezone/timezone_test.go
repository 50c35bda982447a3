package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, "America/Argentina/Buenos_Aires", Location("America/Argentina/Buenos_Aires").String())
}

func TestParseDateTimeUsesShopLocation(t *testing.T) {
	got, err := ParseDateTime("America/Argentina/Buenos_Aires", "2026-03-10", "09:30")
	require.NoError(t, err)

	assert.Equal(t, "America/Argentina/Buenos_Aires", got.Location().String())
	assert.Equal(t, 12, got.UTC().Hour())
	assert.Equal(t, 30, got.UTC().Minute())
}

func TestDayKeyConvertsToShopDay(t *testing.T) {
	// 01:30 UTC ainda é o dia anterior em Buenos Aires (UTC-3).
	instant := time.Date(2026, 3, 11, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-10", DayKey("America/Argentina/Buenos_Aires", instant))
}

func TestStartOfDay(t *testing.T) {
	loc := Location("America/Sao_Paulo")
	in := time.Date(2026, 5, 2, 18, 45, 12, 0, loc)
	assert.Equal(t, time.Date(2026, 5, 2, 0, 0, 0, 0, loc), StartOfDay(in))
}
