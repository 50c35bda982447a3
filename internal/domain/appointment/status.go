package appointment

import "github.com/BruksfildServices01/barberia/internal/httperr"

// ===============================
// Appointment Status (colunas do kanban)
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

const (
	OriginPrivate  = "private"
	OriginPublic   = "public"
	OriginWhatsApp = "whatsapp"
)

// transitions lista os movimentos permitidos entre colunas.
// completed é terminal: a cobrança já entrou na caja.
var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusCancelled},
	StatusCancelled: {StatusPending},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// CanTransition define se o card pode ir de from para to.
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_transition")
}

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

// CanComplete define se um agendamento pode ser concluído
func CanComplete(current Status) error {
	return CanTransition(current, StatusCompleted)
}

func InitialStatus() Status {
	return StatusPending
}

// KanbanColumns é a ordem das colunas no quadro.
func KanbanColumns() []Status {
	return []Status{StatusPending, StatusCompleted, StatusCancelled}
}
