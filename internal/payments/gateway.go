package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

var ErrNotConfigured = errors.New("payments: provider not configured")

type PreferenceInput struct {
	Title             string
	AmountCents       int64
	Currency          string
	ExternalReference string
}

type Preference struct {
	ID        string
	InitPoint string
}

type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
	AmountCents       int64
	MethodID          string
}

// Gateway isola o SDK do provedor dos casos de uso.
type Gateway interface {
	CreatePreference(ctx context.Context, in PreferenceInput) (*Preference, error)
	GetPayment(ctx context.Context, id string) (*PaymentInfo, error)
}

// AppointmentReference monta a external_reference usada na preferência.
func AppointmentReference(appointmentID uint) string {
	return fmt.Sprintf("appointment:%d", appointmentID)
}

// ParseAppointmentReference faz o caminho inverso; ok=false para referências
// que não são de turno.
func ParseAppointmentReference(ref string) (uint, bool) {
	raw, found := strings.CutPrefix(ref, "appointment:")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func centsToAmount(c int64) float64 {
	return float64(c) / 100
}

func amountToCents(a float64) int64 {
	return int64(math.Round(a * 100))
}
