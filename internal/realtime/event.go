package realtime

import (
	"context"
	"time"
)

const (
	TopicAppointmentCreated     = "appointment.created"
	TopicAppointmentUpdated     = "appointment.updated"
	TopicAppointmentRescheduled = "appointment.rescheduled"
	TopicBloqueoCreated         = "bloqueo.created"
	TopicBloqueoDeleted         = "bloqueo.deleted"
	TopicCajaMovement           = "caja.movement"
	TopicChatMessage            = "chat.message"
	TopicChatStatus             = "chat.status"
)

// Event é o envelope enviado a todos os navegadores conectados da barbearia.
type Event struct {
	BarbershopID uint      `json:"barbershop_id"`
	Topic        string    `json:"topic"`
	Payload      any       `json:"payload"`
	At           time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Broker interface {
	Publisher
	// Subscribe devolve um canal de eventos (já serializados em JSON) da
	// barbearia e uma função para cancelar a inscrição.
	Subscribe(ctx context.Context, barbershopID uint) (<-chan []byte, func(), error)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// Nop descarta eventos; útil onde não há ninguém escutando.
var Nop Publisher = nopPublisher{}
