package appointment

import "time"

type AvailabilityInput struct {
	// BarberID 0 = qualquer barbeiro ativo.
	BarberID  uint
	ServiceID uint
	Date      time.Time
	// NotBefore corta horários anteriores a ele (zero = sem corte extra).
	NotBefore time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ComputeSlots percorre o expediente em passos de step e devolve os horários
// de duração duration livres de almoço, ocupações e do corte NotBefore.
func ComputeSlots(
	sched DaySchedule,
	busy []TimeRange,
	duration time.Duration,
	step time.Duration,
	notBefore time.Time,
) []TimeSlot {
	if duration <= 0 {
		return []TimeSlot{}
	}
	if step <= 0 {
		step = duration
	}

	slots := []TimeSlot{}
	for cur := sched.Work.Start; !cur.Add(duration).After(sched.Work.End); cur = cur.Add(step) {
		slot := TimeRange{Start: cur, End: cur.Add(duration)}

		if !notBefore.IsZero() && slot.Start.Before(notBefore) {
			continue
		}
		if !sched.Fits(slot) {
			continue
		}
		if AnyOverlap(busy, slot) {
			continue
		}

		slots = append(slots, TimeSlot{
			Start: slot.Start.Format("15:04"),
			End:   slot.End.Format("15:04"),
		})
	}

	return slots
}
