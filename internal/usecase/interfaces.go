package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/calldesk/internal/entity"
)

type LeadStore interface {
	GetLeads(ctx context.Context, userID string) ([]entity.Lead, error)
	PutLeads(ctx context.Context, userID string, leads []entity.Lead) error
}

type SessionStore interface {
	GetSession(ctx context.Context) (*entity.Session, error)
	PutSession(ctx context.Context, s entity.Session) error
	ClearSession(ctx context.Context) error
}

// UserDirectory is only used by the authentication flow.
type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*entity.StoredUser, error)
	CreateUser(ctx context.Context, u *entity.StoredUser) error
	DeleteUser(ctx context.Context, id string) error
}

// CredentialHasher keeps passwords out of the user directory.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type ScriptGenerator interface {
	GenerateScript(ctx context.Context, lead entity.Lead, caller string) (string, error)
}

// LeadEvent is published after a transition has been written through.
type LeadEvent struct {
	UserID     string            `json:"user_id"`
	CallerName string            `json:"caller_name"`
	LeadID     string            `json:"lead_id"`
	LeadName   string            `json:"lead_name"`
	LeadEmail  string            `json:"lead_email,omitempty"`
	Status     entity.LeadStatus `json:"status"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type LeadEventPublisher interface {
	PublishLeadEvent(ctx context.Context, ev LeadEvent) error
}

// MetricsRecorder receives lifecycle counters. Nil is allowed everywhere.
type MetricsRecorder interface {
	RecordTransition(status entity.LeadStatus)
	RecordImport(imported, skipped int)
	RecordScript(outcome string)
}
