package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barberia/internal/models"
)

// ErrNotFound é devolvido pelos repositórios quando o registro não existe
// (ou pertence a outra barbearia).
var ErrNotFound = errors.New("record not found")

type Filter struct {
	BarbershopID uint
	BarberID     *uint
	BranchID     *uint
	ClientID     *uint
	From         time.Time
	To           time.Time
	Statuses     []Status
}

type BloqueoFilter struct {
	BarbershopID uint
	BarberID     *uint
	BranchID     *uint
	FromDay      string
	ToDay        string
}

type Repository interface {
	// Transaction roda fn com um repositório ligado à mesma transação.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarbershopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barbershop, error)

	// -------- Catalog / staff --------
	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	GetBarber(
		ctx context.Context,
		barbershopID uint,
		barberID uint,
	) (*models.User, error)

	GetBranch(
		ctx context.Context,
		barbershopID uint,
		branchID uint,
	) (*models.Branch, error)

	ListActiveBarbers(
		ctx context.Context,
		barbershopID uint,
		branchID *uint,
	) ([]models.User, error)

	// LockBarber serializa agendamentos concorrentes do mesmo barbeiro
	// (SELECT ... FOR UPDATE). Só faz sentido dentro de Transaction.
	LockBarber(
		ctx context.Context,
		barberID uint,
	) error

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// ListBusyAppointments devolve os turnos pendentes do barbeiro que
	// tocam [start, end), ignorando excludeID (0 = nenhum).
	ListBusyAppointments(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) ([]models.Appointment, error)

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	GetAppointment(
		ctx context.Context,
		barbershopID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		f Filter,
	) ([]models.Appointment, error)

	// -------- Bloqueos --------
	ListBloqueos(ctx context.Context, f BloqueoFilter) ([]models.Bloqueo, error)
	CreateBloqueo(ctx context.Context, b *models.Bloqueo) error
	GetBloqueo(ctx context.Context, barbershopID, id uint) (*models.Bloqueo, error)
	DeleteBloqueo(ctx context.Context, b *models.Bloqueo) error

	// -------- Caja --------
	IsCajaClosed(
		ctx context.Context,
		barbershopID uint,
		branchID uint,
		day string,
	) (bool, error)

	// LockCaja serializa lançamentos e fechamento da caja da sucursal
	// (branchID 0 = barbearia). ErrNotFound se a sucursal for de outro tenant.
	LockCaja(ctx context.Context, barbershopID, branchID uint) error

	HasIncomeForAppointment(
		ctx context.Context,
		barbershopID uint,
		appointmentID uint,
	) (bool, error)

	CreateCashMovement(ctx context.Context, m *models.CashMovement) error
}
