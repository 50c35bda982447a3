package appointment

import (
	"time"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/validators"
)

// ValidateBloqueo confere formato de dia e faixa horária.
func ValidateBloqueo(b *models.Bloqueo) error {
	if _, err := time.Parse(timezone.DateLayout, b.Day); err != nil {
		return httperr.ErrBusiness("invalid_date")
	}

	if b.FullDay {
		b.StartTime, b.EndTime = "", ""
		return nil
	}

	if !validators.IsClock(b.StartTime) || !validators.IsClock(b.EndTime) {
		return httperr.ErrBusiness("invalid_clock")
	}
	if !validators.ClockBefore(b.StartTime, b.EndTime) {
		return httperr.ErrBusiness("invalid_range")
	}
	return nil
}

// BloqueoRange devolve o intervalo concreto do bloqueio no fuso loc.
// Dia inteiro cobre [00:00, 00:00 do dia seguinte).
func BloqueoRange(b models.Bloqueo, loc *time.Location) (TimeRange, error) {
	day, err := time.ParseInLocation(timezone.DateLayout, b.Day, loc)
	if err != nil {
		return TimeRange{}, httperr.ErrBusiness("invalid_date")
	}

	if b.FullDay {
		return TimeRange{Start: day, End: day.AddDate(0, 0, 1)}, nil
	}

	start, err := ClockOn(day, b.StartTime)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ClockOn(day, b.EndTime)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: start, End: end}, nil
}

// AppliesTo diz se o bloqueio afeta o barbeiro (de uma sucursal) informado.
func AppliesTo(b models.Bloqueo, barberID uint, branchID *uint) bool {
	if b.BarberID != nil {
		return *b.BarberID == barberID
	}
	if b.BranchID != nil {
		return branchID == nil || *b.BranchID == *branchID
	}
	return true
}

// BlockedRanges filtra e converte os bloqueios que valem para o barbeiro.
// Registros inválidos são ignorados.
func BlockedRanges(bloqueos []models.Bloqueo, barberID uint, branchID *uint, loc *time.Location) []TimeRange {
	out := make([]TimeRange, 0, len(bloqueos))
	for _, b := range bloqueos {
		if !AppliesTo(b, barberID, branchID) {
			continue
		}
		r, err := BloqueoRange(b, loc)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

func AnyOverlap(ranges []TimeRange, r TimeRange) bool {
	for _, b := range ranges {
		if b.Overlaps(r) {
			return true
		}
	}
	return false
}
