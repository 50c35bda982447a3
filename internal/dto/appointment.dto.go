package dto

import (
	"time"

	"github.com/BruksfildServices01/barberia/internal/models"
)

type AppointmentListDTO struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Origin    string    `json:"origin"`

	BarberID   uint   `json:"barber_id"`
	BarberName string `json:"barber_name"`
	BranchID   *uint  `json:"branch_id"`

	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`

	ServiceID   uint   `json:"service_id"`
	ServiceName string `json:"service_name"`
	PriceCents  int64  `json:"price_cents"`

	Notes string `json:"notes"`
}

func NewAppointmentList(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:          ap.ID,
		StartTime:   ap.StartTime,
		EndTime:     ap.EndTime,
		Status:      ap.Status,
		Origin:      ap.Origin,
		BarberID:    ap.BarberID,
		BarberName:  ap.Barber.Name,
		BranchID:    ap.BranchID,
		ClientID:    ap.ClientID,
		ClientName:  ap.Client.Name,
		ClientPhone: ap.Client.Phone,
		ServiceID:   ap.ServiceID,
		ServiceName: ap.Service.Name,
		PriceCents:  ap.PriceCents,
		Notes:       ap.Notes,
	}
}

func NewAppointmentListSlice(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, NewAppointmentList(ap))
	}
	return out
}

// KanbanDTO agrupa os turnos do dia por coluna de status.
type KanbanColumnDTO struct {
	Status string               `json:"status"`
	Items  []AppointmentListDTO `json:"items"`
}

type KanbanDTO struct {
	Date    string            `json:"date"`
	Columns []KanbanColumnDTO `json:"columns"`
}

type CalendarDTO struct {
	From         string               `json:"from"`
	To           string               `json:"to"`
	Appointments []AppointmentListDTO `json:"appointments"`
	Bloqueos     []models.Bloqueo     `json:"bloqueos"`
}

// Visão pública: nada de telefone ou notas do cliente.
type PublicServiceDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category"`
}

type PublicBarberDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	BranchID  *uint  `json:"branch_id"`
}

type PublicAppointmentDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	BarberName  string    `json:"barber_name"`
	ServiceName string    `json:"service_name"`
	PriceCents  int64     `json:"price_cents"`
}
