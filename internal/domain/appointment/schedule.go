package appointment

import (
	"time"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/validators"
)

// TimeRange é um intervalo semiaberto [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

func (r TimeRange) Contains(o TimeRange) bool {
	return !o.Start.Before(r.Start) && !o.End.After(r.End)
}

// DaySchedule é o expediente de um barbeiro num dia concreto.
type DaySchedule struct {
	Work  TimeRange
	Lunch *TimeRange
}

// ClockOn combina o dia de day com um horário "HH:MM" no fuso de day.
func ClockOn(day time.Time, hm string) (time.Time, error) {
	if !validators.IsClock(hm) {
		return time.Time{}, httperr.ErrBusiness("invalid_clock")
	}
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}

// ScheduleFor transforma o registro de working hours em intervalos do dia.
// ok=false quando o barbeiro não atende nesse dia.
func ScheduleFor(wh *models.WorkingHours, day time.Time) (DaySchedule, bool) {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return DaySchedule{}, false
	}

	start, err1 := ClockOn(day, wh.StartTime)
	end, err2 := ClockOn(day, wh.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return DaySchedule{}, false
	}

	sched := DaySchedule{Work: TimeRange{Start: start, End: end}}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		ls, err1 := ClockOn(day, wh.LunchStart)
		le, err2 := ClockOn(day, wh.LunchEnd)
		if err1 == nil && err2 == nil && ls.Before(le) {
			sched.Lunch = &TimeRange{Start: ls, End: le}
		}
	}

	return sched, true
}

// Fits valida se um horário está dentro do expediente, fora do almoço.
func (s DaySchedule) Fits(r TimeRange) bool {
	if !s.Work.Contains(r) {
		return false
	}
	if s.Lunch != nil && s.Lunch.Overlaps(r) {
		return false
	}
	return true
}

// ValidateWorkingDay confere um dia da grade semanal antes de salvar.
func ValidateWorkingDay(wh models.WorkingHours) error {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return httperr.ErrBusiness("invalid_weekday")
	}
	if !wh.Active {
		return nil
	}
	if !validators.IsClock(wh.StartTime) || !validators.IsClock(wh.EndTime) {
		return httperr.ErrBusiness("invalid_clock")
	}
	if !validators.ClockBefore(wh.StartTime, wh.EndTime) {
		return httperr.ErrBusiness("invalid_working_hours")
	}

	if wh.LunchStart == "" && wh.LunchEnd == "" {
		return nil
	}
	if !validators.IsClock(wh.LunchStart) || !validators.IsClock(wh.LunchEnd) {
		return httperr.ErrBusiness("invalid_clock")
	}
	if !validators.ClockBefore(wh.LunchStart, wh.LunchEnd) ||
		validators.ClockBefore(wh.LunchStart, wh.StartTime) ||
		validators.ClockBefore(wh.EndTime, wh.LunchEnd) {
		return httperr.ErrBusiness("invalid_lunch")
	}
	return nil
}
