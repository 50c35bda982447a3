package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisBroker distribui eventos entre instâncias da API via PUBLISH/SUBSCRIBE.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

func channel(barbershopID uint) string {
	return fmt.Sprintf("barberia:events:%d", barbershopID)
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel(ev.BarbershopID), payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, barbershopID uint) (<-chan []byte, func(), error) {
	sub := b.rdb.Subscribe(ctx, channel(barbershopID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			default:
				// cliente lento: perde o evento, a tela recarrega no próximo
			}
		}
	}()

	return out, func() { _ = sub.Close() }, nil
}

var _ Broker = (*RedisBroker)(nil)
