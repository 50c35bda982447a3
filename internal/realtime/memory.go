package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryBroker funciona dentro de um único processo.
type MemoryBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[uint]map[int]chan []byte
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[uint]map[int]chan []byte)}
}

func (b *MemoryBroker) Publish(_ context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[ev.BarbershopID] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, barbershopID uint) (<-chan []byte, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[barbershopID] == nil {
		b.subs[barbershopID] = make(map[int]chan []byte)
	}
	id := b.nextID
	b.nextID++

	ch := make(chan []byte, 16)
	b.subs[barbershopID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[barbershopID], id)
			close(ch)
		})
	}
	return ch, cancel, nil
}

var _ Broker = (*MemoryBroker)(nil)
