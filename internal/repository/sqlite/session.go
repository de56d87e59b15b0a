package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/argtbn/chatbot-api/internal/domain"
)

// SessionRepository implements domain.SessionRepository on sqlite
type SessionRepository struct {
	store *Store
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	createdAt := now()
	res, err := r.store.db.ExecContext(ctx,
		`INSERT INTO chat (name, created_at) VALUES (?, ?)`,
		session.Name, createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	session.ID = id
	session.CreatedAt = createdAt
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id int64) (*domain.Session, error) {
	var s domain.Session
	var createdAt int64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM chat WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	s.CreatedAt = time.Unix(0, createdAt).UTC()
	return &s, nil
}

func (r *SessionRepository) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM chat ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		var createdAt int64
		if err := rows.Scan(&s.ID, &s.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.CreatedAt = time.Unix(0, createdAt).UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
