package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"github.com/xavierca1/calldesk/internal/entity"
)

type UserRepository struct {
	conn *Conn
}

var _ entity.UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(conn *Conn) *UserRepository {
	return &UserRepository{conn: conn}
}

// FindUserByEmail matches case-insensitively.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entity.StoredUser, error) {
	query := r.conn.Rebind(`
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE lower(email) = lower(?)
	`)

	var (
		u         entity.StoredUser
		createdAt string
	)
	err := r.conn.DB.QueryRowContext(ctx, query, strings.TrimSpace(email)).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("user %s: created_at: %w", u.ID, err)
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, u *entity.StoredUser) error {
	query := r.conn.Rebind(`
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.conn.DB.ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateEmail
		}
		log.Printf("❌ [DB] create user failed: %v", err)
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// DeleteUser removes the user together with its lead list and session.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	tx, err := r.conn.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM leads WHERE user_id = ?`,
		`DELETE FROM sessions WHERE user_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, r.conn.Rebind(q), id); err != nil {
			return fmt.Errorf("delete user %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
