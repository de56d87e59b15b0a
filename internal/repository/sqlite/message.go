package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/argtbn/chatbot-api/internal/domain"
)

// MessageRepository implements domain.MessageRepository on sqlite
type MessageRepository struct {
	store *Store
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{store: store}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	createdAt := now()
	res, err := r.store.db.ExecContext(ctx,
		`INSERT INTO message (chat_id, sender, content, created_at) VALUES (?, ?, ?, ?)`,
		message.ChatID, string(message.Sender), message.Content, createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read message id: %w", err)
	}
	message.ID = id
	message.CreatedAt = createdAt
	return nil
}

func (r *MessageRepository) ListBySession(ctx context.Context, chatID int64) ([]domain.Message, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, chat_id, sender, content, created_at
		 FROM message
		 WHERE chat_id = ?
		 ORDER BY created_at DESC, id DESC`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var sender string
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.ChatID, &sender, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Sender = domain.Sender(sender)
		m.CreatedAt = time.Unix(0, createdAt).UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
