package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	block  chan struct{}
}

func (s *memorySink) Log(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *memorySink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &memorySink{}
	d := NewDispatcher(sink, zap.NewNop(), 10)

	d.Dispatch(Event{BarbershopID: 1, Action: "appointment_created"})
	d.Dispatch(Event{BarbershopID: 1, Action: "appointment_completed"})
	d.Close()

	assert.Equal(t, []string{"appointment_created", "appointment_completed"}, sink.actions())
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &memorySink{block: make(chan struct{})}
	d := NewDispatcher(sink, zap.NewNop(), 1)

	// o worker fica preso no primeiro evento; o segundo ocupa o buffer e o
	// terceiro é descartado.
	for i := 0; i < 5; i++ {
		d.Dispatch(Event{Action: "caja_movement_created"})
	}
	close(sink.block)
	d.Close()

	assert.LessOrEqual(t, len(sink.actions()), 2)
	assert.NotEmpty(t, sink.actions())
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &memorySink{fail: true}
	d := NewDispatcher(sink, zap.NewNop(), 4)
	d.Dispatch(Event{Action: "login"})
	d.Close()
	d.Close()

	assert.Empty(t, sink.actions())
}
