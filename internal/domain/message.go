package domain

import (
	"context"
	"time"
)

// Sender represents the author of a message
type Sender string

const (
	SenderUser Sender = "User"
	SenderBot  Sender = "Bot"
)

// Message represents one turn in a session. Messages are append-only:
// once written they are never updated or deleted.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	// Create persists the message and fills ID and CreatedAt
	Create(ctx context.Context, message *Message) error

	// ListBySession returns all messages for a session, newest first.
	// An unknown session id yields an empty slice, not an error.
	ListBySession(ctx context.Context, chatID int64) ([]Message, error)
}
