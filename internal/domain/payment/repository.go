package payment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barberia/internal/models"
)

const ProviderMercadoPago = "mercadopago"

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)

	// GetAppointment já vem com Service carregado.
	GetAppointment(ctx context.Context, barbershopID, id uint) (*models.Appointment, error)
	// GetAppointmentByID não tem escopo: usado só pelo webhook, que chega sem tenant.
	GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error)

	CreatePayment(ctx context.Context, p *models.Payment) error
	UpdatePayment(ctx context.Context, p *models.Payment) error
	FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error)
	// LatestPaymentForAppointment devolve o último link gerado para o turno.
	LatestPaymentForAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error)

	LockCaja(ctx context.Context, barbershopID, branchID uint) error
	IsCajaClosed(ctx context.Context, barbershopID, branchID uint, day string) (bool, error)
	HasIncomeForAppointment(ctx context.Context, barbershopID, appointmentID uint) (bool, error)
	CreateCashMovement(ctx context.Context, m *models.CashMovement) error
}
