package validators

import "time"

// IsClock valida horários no formato "HH:MM".
func IsClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ClockBefore compara dois horários "HH:MM" já validados.
func ClockBefore(a, b string) bool {
	return a < b
}
