package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Session é o que fica guardado no servidor para cada cookie emitido.
// O JWT carrega apenas o ID; revogar = apagar do store.
type Session struct {
	ID           string    `json:"id"`
	UserID       uint      `json:"user_id"`
	BarbershopID uint      `json:"barbershop_id"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UserAgent    string    `json:"user_agent"`
}

type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}
