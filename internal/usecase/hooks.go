package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/metrics"
	"github.com/BruksfildServices01/barberia/internal/realtime"
)

// Hooks reúne os efeitos colaterais disparados depois que um caso de uso
// grava: auditoria, evento em tempo real e métricas. Todos os campos são
// opcionais.
type Hooks struct {
	Audit   audit.Recorder
	Events  realtime.Publisher
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func (h Hooks) Record(ev audit.Event) {
	if h.Audit == nil {
		return
	}
	h.Audit.Dispatch(ev)
}

// Publish não falha a requisição: o dado já está salvo, a tela só
// deixa de atualizar sozinha.
func (h Hooks) Publish(ctx context.Context, barbershopID uint, topic string, payload any) {
	if h.Events == nil {
		return
	}

	err := h.Events.Publish(ctx, realtime.Event{
		BarbershopID: barbershopID,
		Topic:        topic,
		Payload:      payload,
		At:           time.Now(),
	})
	if err != nil && h.Log != nil {
		h.Log.Warn("realtime publish failed",
			zap.String("topic", topic),
			zap.Uint("barbershop_id", barbershopID),
			zap.Error(err),
		)
	}
}
