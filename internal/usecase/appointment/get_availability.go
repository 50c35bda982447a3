package appointment

import (
	"context"
	"errors"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

// Execute calcula os horários livres do barbeiro no dia. Com public=true a
// antecedência mínima da barbearia é aplicada.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	shop *models.Barbershop,
	in domain.AvailabilityInput,
	public bool,
) ([]domain.TimeSlot, error) {

	svc, err := loadService(ctx, uc.repo, shop.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	notBefore := uc.now()
	if public {
		minAdvance := shop.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = defaultMinAdvanceMinutes
		}
		notBefore = notBefore.Add(time.Duration(minAdvance) * time.Minute)
	}
	if !in.NotBefore.IsZero() && in.NotBefore.After(notBefore) {
		notBefore = in.NotBefore
	}

	loc := timezone.Location(shop.Timezone)
	day := timezone.StartOfDay(in.Date.In(loc))

	if in.BarberID != 0 {
		barber, err := loadBarber(ctx, uc.repo, shop.ID, in.BarberID)
		if err != nil {
			return nil, err
		}
		return uc.slotsFor(ctx, shop, barber, svc, day, notBefore)
	}

	// Sem barbeiro escolhido: união dos horários de todos os ativos.
	barbers, err := uc.repo.ListActiveBarbers(ctx, shop.ID, nil)
	if err != nil {
		return nil, err
	}

	seen := map[string]domain.TimeSlot{}
	for i := range barbers {
		slots, err := uc.slotsFor(ctx, shop, &barbers[i], svc, day, notBefore)
		if err != nil {
			return nil, err
		}
		for _, s := range slots {
			seen[s.Start] = s
		}
	}

	out := make([]domain.TimeSlot, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (uc *GetAvailability) slotsFor(
	ctx context.Context,
	shop *models.Barbershop,
	barber *models.User,
	svc *models.Service,
	day time.Time,
	notBefore time.Time,
) ([]domain.TimeSlot, error) {

	wh, err := uc.repo.GetWorkingHours(ctx, barber.ID, int(day.Weekday()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}

	sched, ok := domain.ScheduleFor(wh, day)
	if !ok {
		return []domain.TimeSlot{}, nil
	}

	appointments, err := uc.repo.ListBusyAppointments(ctx, barber.ID, sched.Work.Start, sched.Work.End, 0)
	if err != nil {
		return nil, err
	}

	key := day.Format(timezone.DateLayout)
	bloqueos, err := uc.repo.ListBloqueos(ctx, domain.BloqueoFilter{
		BarbershopID: shop.ID,
		FromDay:      key,
		ToDay:        key,
	})
	if err != nil {
		return nil, err
	}

	busy := domain.BlockedRanges(bloqueos, barber.ID, barber.BranchID, day.Location())
	for i := range appointments {
		busy = append(busy, domain.Interval(&appointments[i]))
	}

	duration := durationOf(svc)
	step := duration
	if shop.SlotIntervalMinutes > 0 {
		step = time.Duration(shop.SlotIntervalMinutes) * time.Minute
	}

	return domain.ComputeSlots(sched, busy, duration, step, notBefore), nil
}
