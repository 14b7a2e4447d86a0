package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/calldesk/internal/entity"
)

const (
	bookingSlotLayout = "2006-01-02 15:04"
	bookingNotePrefix = "[System]: Booked consultation for "
)

type EngineOption func(*LeadEngine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *LeadEngine) { e.now = now }
}

func WithEventPublisher(p LeadEventPublisher) EngineOption {
	return func(e *LeadEngine) { e.events = p }
}

func WithMetrics(m MetricsRecorder) EngineOption {
	return func(e *LeadEngine) { e.metrics = m }
}

// LeadEngine owns the working copy of one session's lead list. Every
// mutation replaces the list, recomputes the stats and writes the whole
// list through to the store. It does no locking: callers run one action
// at a time.
type LeadEngine struct {
	session entity.Session
	store   LeadStore
	events  LeadEventPublisher
	metrics MetricsRecorder
	now     func() time.Time

	leads []entity.Lead
	stats entity.LeadStats
}

// OpenLeadEngine loads the session user's lead list.
func OpenLeadEngine(ctx context.Context, session entity.Session, store LeadStore, opts ...EngineOption) (*LeadEngine, error) {
	if session.User.ID == "" {
		return nil, domainErr(entity.ErrNoSession)
	}
	e := &LeadEngine{
		session: session,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	leads, err := store.GetLeads(ctx, session.User.ID)
	if err != nil {
		return nil, storeErr("failed to load leads", err)
	}
	e.leads = cloneLeads(leads)
	e.stats = entity.ComputeStats(e.leads)
	return e, nil
}

func (e *LeadEngine) Session() entity.Session {
	return e.session
}

func (e *LeadEngine) Leads() []entity.Lead {
	return cloneLeads(e.leads)
}

func (e *LeadEngine) Stats() entity.LeadStats {
	return e.stats
}

func (e *LeadEngine) Lead(id string) (entity.Lead, error) {
	idx := e.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, domainErr(entity.ErrLeadNotFound)
	}
	return cloneLead(e.leads[idx]), nil
}

// ReplaceAll discards the current list wholesale. Used for a fresh import
// and for "start new list" (an empty slice).
func (e *LeadEngine) ReplaceAll(ctx context.Context, leads []entity.Lead) error {
	if leads == nil {
		leads = []entity.Lead{}
	}
	if err := e.commit(ctx, cloneLeads(leads)); err != nil {
		return err
	}
	log.Printf("📋 [LEADS] user=%s list replaced (%d leads)", e.session.User.ID, len(leads))
	return nil
}

// Book moves a lead to BOOKED for a slot strictly in the future and records
// the slot in the notes.
func (e *LeadEngine) Book(ctx context.Context, id string, at time.Time, notes string) (entity.Lead, error) {
	return e.transition(ctx, id, entity.StatusBooked, func(l *entity.Lead, now time.Time) error {
		if at.IsZero() || !at.After(now) {
			return domainErr(entity.ErrInvalidSchedule)
		}
		base := l.Notes
		if notes != "" {
			base = notes
		}
		line := bookingNotePrefix + at.Format(bookingSlotLayout)
		if base == "" {
			l.Notes = line
		} else {
			l.Notes = base + "\n" + line
		}
		return nil
	})
}

// NoAnswer requires an email address so the missed-call message can go out.
func (e *LeadEngine) NoAnswer(ctx context.Context, id string, notes string) (entity.Lead, error) {
	return e.transition(ctx, id, entity.StatusNoAnswer, func(l *entity.Lead, _ time.Time) error {
		if strings.TrimSpace(l.Email) == "" {
			return domainErr(entity.ErrMissingContactChannel)
		}
		keepNotes(l, notes)
		return nil
	})
}

func (e *LeadEngine) Cancel(ctx context.Context, id string, notes string) (entity.Lead, error) {
	return e.transition(ctx, id, entity.StatusCancelled, func(l *entity.Lead, _ time.Time) error {
		keepNotes(l, notes)
		return nil
	})
}

func (e *LeadEngine) Reschedule(ctx context.Context, id string, notes string) (entity.Lead, error) {
	return e.transition(ctx, id, entity.StatusRescheduled, func(l *entity.Lead, _ time.Time) error {
		keepNotes(l, notes)
		return nil
	})
}

// ParseBookingSlot reads the date ("YYYY-MM-DD") and time ("HH:MM") picked
// by the agent.
func ParseBookingSlot(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, domainErr(entity.ErrInvalidSchedule)
	}
	if loc == nil {
		loc = time.Local
	}
	at, err := time.ParseInLocation(bookingSlotLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, domainErr(entity.ErrInvalidSchedule)
	}
	return at, nil
}

func (e *LeadEngine) transition(ctx context.Context, id string, status entity.LeadStatus, apply func(*entity.Lead, time.Time) error) (entity.Lead, error) {
	idx := e.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, domainErr(entity.ErrLeadNotFound)
	}

	now := e.now()
	updated := cloneLead(e.leads[idx])
	if err := apply(&updated, now); err != nil {
		return entity.Lead{}, err
	}
	updated.Status = status
	updated.LastContacted = &now

	next := cloneLeads(e.leads)
	next[idx] = updated
	if err := e.commit(ctx, next); err != nil {
		return entity.Lead{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordTransition(status)
	}
	e.publish(ctx, updated, now)
	log.Printf("📞 [LEADS] user=%s lead=%s -> %s", e.session.User.ID, updated.ID, status)
	return cloneLead(updated), nil
}

// commit swaps in the new list and writes it through. A failed write
// restores the previous list so memory and store never disagree.
func (e *LeadEngine) commit(ctx context.Context, next []entity.Lead) error {
	prevLeads, prevStats := e.leads, e.stats
	e.leads = next
	e.stats = entity.ComputeStats(next)

	if err := e.store.PutLeads(ctx, e.session.User.ID, next); err != nil {
		e.leads, e.stats = prevLeads, prevStats
		log.Printf("❌ [LEADS] user=%s write-through failed: %v", e.session.User.ID, err)
		return storeErr("failed to save leads", err)
	}
	return nil
}

func (e *LeadEngine) publish(ctx context.Context, l entity.Lead, at time.Time) {
	if e.events == nil {
		return
	}
	ev := LeadEvent{
		UserID:     e.session.User.ID,
		CallerName: e.session.User.Name,
		LeadID:     l.ID,
		LeadName:   l.Name,
		LeadEmail:  l.Email,
		Status:     l.Status,
		OccurredAt: at,
	}
	if err := e.events.PublishLeadEvent(ctx, ev); err != nil {
		log.Printf("⚠️ [LEADS] event for lead %s not published: %v", l.ID, err)
	}
}

func (e *LeadEngine) indexOf(id string) int {
	for i := range e.leads {
		if e.leads[i].ID == id {
			return i
		}
	}
	return -1
}

func keepNotes(l *entity.Lead, notes string) {
	if notes != "" {
		l.Notes = notes
	}
}

func cloneLead(l entity.Lead) entity.Lead {
	if l.LastContacted != nil {
		t := *l.LastContacted
		l.LastContacted = &t
	}
	return l
}

func cloneLeads(leads []entity.Lead) []entity.Lead {
	out := make([]entity.Lead, len(leads))
	for i, l := range leads {
		out[i] = cloneLead(l)
	}
	return out
}
