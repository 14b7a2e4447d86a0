package usecase

import (
	"context"
	"sync"

	"github.com/xavierca1/calldesk/internal/entity"
)

// Desk runs lead actions for the active session one at a time, so
// concurrent callers (HTTP requests) see a single ordered stream of
// lead-list mutations. Each action reloads the list from the store, which
// keeps writes from other processes sharing the store (leadctl) visible.
type Desk struct {
	mu       sync.Mutex
	sessions SessionStore
	leads    LeadStore
	opts     []EngineOption
}

func NewDesk(sessions SessionStore, leads LeadStore, opts ...EngineOption) *Desk {
	return &Desk{
		sessions: sessions,
		leads:    leads,
		opts:     opts,
	}
}

// Do opens the engine of the current session and runs fn against it.
func (d *Desk) Do(ctx context.Context, fn func(*LeadEngine) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.sessions.GetSession(ctx)
	if err != nil {
		return storeErr("failed to read session", err)
	}
	if s == nil {
		return domainErr(entity.ErrNoSession)
	}

	engine, err := OpenLeadEngine(ctx, *s, d.leads, d.opts...)
	if err != nil {
		return err
	}
	return fn(engine)
}
