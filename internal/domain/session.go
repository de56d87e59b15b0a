package domain

import (
	"context"
	"time"
)

// Session represents a conversation thread grouping ordered messages
type Session struct {
	ID        int64     `json:"chat_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	// Create persists the session and fills ID and CreatedAt
	Create(ctx context.Context, session *Session) error

	// Get returns ErrSessionNotFound when no row matches
	Get(ctx context.Context, id int64) (*Session, error)

	// List returns all sessions, newest first
	List(ctx context.Context) ([]Session, error)
}
