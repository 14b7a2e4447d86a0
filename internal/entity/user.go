package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User identifies the owner of a lead list. Immutable after registration.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StoredUser is the user directory record. PasswordHash is never plaintext.
type StoredUser struct {
	User
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewStoredUser(name, email, passwordHash string) (*StoredUser, error) {
	u := &StoredUser{
		User: User{
			ID:    uuid.New().String(),
			Name:  strings.TrimSpace(name),
			Email: strings.TrimSpace(email),
		},
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	if u.Name == "" {
		return nil, errors.New("name is required")
	}
	if u.Email == "" {
		return nil, errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return nil, errors.New("password hash is required")
	}
	return u, nil
}

// Session is the single authenticated user context. It is passed explicitly
// to everything that acts on behalf of the user.
type Session struct {
	User      User      `json:"user"`
	StartedAt time.Time `json:"started_at"`
}

func NewSession(u User) Session {
	return Session{User: u, StartedAt: time.Now()}
}

type UserRepositoryInterface interface {
	FindUserByEmail(ctx context.Context, email string) (*StoredUser, error)
	CreateUser(ctx context.Context, u *StoredUser) error
	DeleteUser(ctx context.Context, id string) error
}

type SessionRepositoryInterface interface {
	GetSession(ctx context.Context) (*Session, error)
	PutSession(ctx context.Context, s Session) error
	ClearSession(ctx context.Context) error
}
