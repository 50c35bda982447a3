package caja

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barberia/internal/models"
)

var ErrNotFound = errors.New("record not found")

type MovementFilter struct {
	BarbershopID  uint
	BranchID      *uint
	From          time.Time
	To            time.Time
	Type          string
	Method        string
	IncludeVoided bool
}

type ClosingFilter struct {
	BarbershopID uint
	BranchID     *uint
	FromDay      string
	ToDay        string
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)

	// LockCaja trava a sucursal até o fim da transação; ErrNotFound quando
	// ela não pertence à barbearia.
	LockCaja(ctx context.Context, barbershopID, branchID uint) error
	GetBarber(ctx context.Context, barbershopID, id uint) (*models.User, error)
	GetAppointment(ctx context.Context, barbershopID, id uint) (*models.Appointment, error)
	HasIncomeForAppointment(ctx context.Context, barbershopID, appointmentID uint) (bool, error)

	// -------- Movements --------
	CreateMovement(ctx context.Context, m *models.CashMovement) error
	GetMovement(ctx context.Context, barbershopID, id uint) (*models.CashMovement, error)
	UpdateMovement(ctx context.Context, m *models.CashMovement) error
	ListMovements(ctx context.Context, f MovementFilter) ([]models.CashMovement, error)

	// -------- Closings --------
	IsClosed(ctx context.Context, barbershopID, branchID uint, day string) (bool, error)
	CreateClosing(ctx context.Context, c *models.CashClosing) error
	ListClosings(ctx context.Context, f ClosingFilter) ([]models.CashClosing, error)
}
