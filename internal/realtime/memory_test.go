package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerIsolatesTenants(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()

	shop1, cancel1, err := b.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer cancel1()

	shop2, cancel2, err := b.Subscribe(ctx, 2)
	require.NoError(t, err)
	defer cancel2()

	require.NoError(t, b.Publish(ctx, Event{BarbershopID: 1, Topic: TopicChatMessage, Payload: map[string]any{"body": "hola"}}))

	select {
	case raw := <-shop1:
		var ev map[string]any
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, TopicChatMessage, ev["topic"])
		assert.NotEmpty(t, ev["at"])
	default:
		t.Fatal("expected event for shop 1")
	}

	select {
	case <-shop2:
		t.Fatal("shop 2 must not receive shop 1 events")
	default:
	}
}

func TestMemoryBrokerCancelClosesChannel(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()

	ch, cancel, err := b.Subscribe(ctx, 3)
	require.NoError(t, err)

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.NoError(t, b.Publish(ctx, Event{BarbershopID: 3, Topic: TopicCajaMovement}))
}
