package postgres

import (
	"context"
	"fmt"

	"github.com/argtbn/chatbot-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{pool: db.Pool}
}

// Create inserts a new message row. Each insert is its own transaction, so the
// write is durable and visible as soon as Create returns.
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO message (chat_id, sender, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		message.ChatID,
		string(message.Sender),
		message.Content,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListBySession retrieves all messages for a session, newest first
func (r *MessageRepository) ListBySession(ctx context.Context, chatID int64) ([]domain.Message, error) {
	query := `
		SELECT id, chat_id, sender, content, created_at
		FROM message
		WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var sender string
		if err := rows.Scan(&m.ID, &m.ChatID, &sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Sender = domain.Sender(sender)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
