package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/calldesk/internal/entity"
)

// SessionRepository persists the single active session in a one-row table.
type SessionRepository struct {
	conn *Conn
}

var _ entity.SessionRepositoryInterface = (*SessionRepository)(nil)

func NewSessionRepository(conn *Conn) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// GetSession returns nil when nobody is logged in.
func (r *SessionRepository) GetSession(ctx context.Context) (*entity.Session, error) {
	var (
		s         entity.Session
		startedAt string
	)
	err := r.conn.DB.QueryRowContext(ctx, `
		SELECT user_id, user_name, user_email, started_at
		FROM sessions
		WHERE slot = 1
	`).Scan(&s.User.ID, &s.User.Name, &s.User.Email, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if s.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("session started_at: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) PutSession(ctx context.Context, s entity.Session) error {
	query := r.conn.Rebind(`
		INSERT INTO sessions (slot, user_id, user_name, user_email, started_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			user_id = excluded.user_id,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			started_at = excluded.started_at
	`)
	if _, err := r.conn.DB.ExecContext(ctx, query, s.User.ID, s.User.Name, s.User.Email, formatTime(s.StartedAt)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ClearSession(ctx context.Context) error {
	if _, err := r.conn.DB.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
