package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barberia/internal/models"
)

func TestShouldAdvance(t *testing.T) {
	assert.True(t, ShouldAdvance(StatusSent, StatusDelivered))
	assert.True(t, ShouldAdvance(StatusDelivered, StatusRead))
	assert.False(t, ShouldAdvance(StatusRead, StatusDelivered))
	assert.True(t, ShouldAdvance(StatusDelivered, StatusFailed))
	assert.False(t, ShouldAdvance(StatusFailed, StatusRead))
	assert.False(t, ShouldAdvance(StatusSent, "deleted"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "hola che", Preview("  hola\n che "))

	long := strings.Repeat("ñ", 200)
	p := Preview(long)
	assert.Equal(t, previewLen, len([]rune(p)))
	assert.True(t, strings.HasSuffix(p, "…"))
}

func TestTouch(t *testing.T) {
	c := &models.Conversation{Archived: true}
	now := time.Now()

	Touch(c, &models.ChatMessage{Direction: DirectionIn, Body: "turno?"}, now)
	assert.Equal(t, 1, c.UnreadCount)
	assert.False(t, c.Archived)
	assert.Equal(t, "turno?", c.LastMessagePreview)

	Touch(c, &models.ChatMessage{Direction: DirectionOut, Body: "sí"}, now)
	assert.Equal(t, 1, c.UnreadCount)
}
