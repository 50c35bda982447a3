package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
)

var ba = func() *time.Location {
	loc, _ := time.LoadLocation("America/Argentina/Buenos_Aires")
	return loc
}()

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, ba)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusCancelled, StatusPending, true},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.True(t, httperr.IsBusiness(err, "invalid_transition"), "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestCancelAndRestore(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}
	now := at(8, 0)

	require.NoError(t, Cancel(ap, "cliente avisó", now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	assert.Equal(t, "cliente avisó", ap.CancelReason)

	require.NoError(t, Restore(ap))
	assert.Equal(t, string(StatusPending), ap.Status)
	assert.Nil(t, ap.CancelledAt)

	require.NoError(t, Complete(ap, now))
	assert.Error(t, Cancel(ap, "", now))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = ParseStatus("scheduled")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestScheduleForWithLunch(t *testing.T) {
	wh := &models.WorkingHours{
		StartTime: "09:00", EndTime: "18:00",
		LunchStart: "12:00", LunchEnd: "13:00",
		Active: true,
	}

	sched, ok := ScheduleFor(wh, at(0, 0))
	require.True(t, ok)

	assert.True(t, sched.Fits(TimeRange{at(9, 0), at(9, 30)}))
	assert.False(t, sched.Fits(TimeRange{at(11, 45), at(12, 15)}))
	assert.False(t, sched.Fits(TimeRange{at(17, 45), at(18, 15)}))

	_, ok = ScheduleFor(&models.WorkingHours{StartTime: "09:00", EndTime: "18:00"}, at(0, 0))
	assert.False(t, ok, "inactive day")
}

func TestValidateWorkingDay(t *testing.T) {
	ok := models.WorkingHours{Weekday: 1, StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00", LunchEnd: "13:00", Active: true}
	assert.NoError(t, ValidateWorkingDay(ok))

	bad := ok
	bad.EndTime = "08:00"
	assert.True(t, httperr.IsBusiness(ValidateWorkingDay(bad), "invalid_working_hours"))

	bad = ok
	bad.LunchEnd = "19:00"
	assert.True(t, httperr.IsBusiness(ValidateWorkingDay(bad), "invalid_lunch"))

	bad = ok
	bad.Weekday = 7
	assert.True(t, httperr.IsBusiness(ValidateWorkingDay(bad), "invalid_weekday"))

	assert.NoError(t, ValidateWorkingDay(models.WorkingHours{Weekday: 0}))
}

func TestBloqueoRange(t *testing.T) {
	full, err := BloqueoRange(models.Bloqueo{Day: "2026-03-10", FullDay: true}, ba)
	require.NoError(t, err)
	assert.Equal(t, at(0, 0), full.Start)
	assert.Equal(t, at(0, 0).AddDate(0, 0, 1), full.End)

	part, err := BloqueoRange(models.Bloqueo{Day: "2026-03-10", StartTime: "14:00", EndTime: "15:30"}, ba)
	require.NoError(t, err)
	assert.Equal(t, at(14, 0), part.Start)
	assert.Equal(t, at(15, 30), part.End)
}

func TestValidateBloqueo(t *testing.T) {
	b := &models.Bloqueo{Day: "2026-03-10", FullDay: true, StartTime: "10:00"}
	require.NoError(t, ValidateBloqueo(b))
	assert.Empty(t, b.StartTime)

	assert.True(t, httperr.IsBusiness(
		ValidateBloqueo(&models.Bloqueo{Day: "10/03/2026", FullDay: true}), "invalid_date"))
	assert.True(t, httperr.IsBusiness(
		ValidateBloqueo(&models.Bloqueo{Day: "2026-03-10", StartTime: "15:00", EndTime: "14:00"}), "invalid_range"))
}

func TestAppliesTo(t *testing.T) {
	barber, other := uint(1), uint(2)
	branch, otherBranch := uint(10), uint(11)

	assert.True(t, AppliesTo(models.Bloqueo{BarberID: &barber}, barber, nil))
	assert.False(t, AppliesTo(models.Bloqueo{BarberID: &other}, barber, nil))
	assert.True(t, AppliesTo(models.Bloqueo{BranchID: &branch}, barber, &branch))
	assert.False(t, AppliesTo(models.Bloqueo{BranchID: &otherBranch}, barber, &branch))
	assert.True(t, AppliesTo(models.Bloqueo{}, barber, &branch))
}

func TestComputeSlots(t *testing.T) {
	sched := DaySchedule{
		Work:  TimeRange{at(9, 0), at(13, 0)},
		Lunch: &TimeRange{at(11, 0), at(12, 0)},
	}
	busy := []TimeRange{
		{at(9, 30), at(10, 0)},
		{at(9, 45), at(10, 30)},
	}

	slots := ComputeSlots(sched, busy, 30*time.Minute, 30*time.Minute, time.Time{})

	assert.Equal(t, []TimeSlot{
		{Start: "09:00", End: "09:30"},
		{Start: "10:30", End: "11:00"},
		{Start: "12:00", End: "12:30"},
		{Start: "12:30", End: "13:00"},
	}, slots)
}

func TestComputeSlotsStepAndNotBefore(t *testing.T) {
	sched := DaySchedule{Work: TimeRange{at(9, 0), at(11, 0)}}

	slots := ComputeSlots(sched, nil, 45*time.Minute, 15*time.Minute, at(9, 20))

	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []string{"09:30", "09:45", "10:00", "10:15"}, starts)
}

func TestComputeSlotsFullDayBlock(t *testing.T) {
	sched := DaySchedule{Work: TimeRange{at(9, 0), at(18, 0)}}
	block, _ := BloqueoRange(models.Bloqueo{Day: "2026-03-10", FullDay: true}, ba)

	assert.Empty(t, ComputeSlots(sched, []TimeRange{block}, 30*time.Minute, 0, time.Time{}))
}
