package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/calldesk/internal/entity"
)

var (
	testUser    = entity.User{ID: "user-1", Name: "Sam Agent", Email: "sam@bc.com"}
	testSession = entity.Session{User: testUser, StartedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	fixedNow    = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

func seedLeads() []entity.Lead {
	jane := entity.NewLead("Jane Doe", "", "0821234567", "jane@x.com", "Acme", "", "")
	jane.ID = "jane"
	bob := entity.NewLead("Bob", "", "0831112222", "", "", "", "old note")
	bob.ID = "bob"
	return []entity.Lead{jane, bob}
}

func openEngine(t *testing.T, store LeadStore, opts ...EngineOption) *LeadEngine {
	t.Helper()
	opts = append([]EngineOption{WithClock(fixedClock)}, opts...)
	e, err := OpenLeadEngine(context.Background(), testSession, store, opts...)
	require.NoError(t, err)
	return e
}

func TestOpenLeadEngine_LoadsStoredList(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()

	e := openEngine(t, store)
	assert.Len(t, e.Leads(), 2)
	assert.Equal(t, entity.LeadStats{Total: 2}, e.Stats())
	assert.Equal(t, testSession, e.Session())
}

func TestOpenLeadEngine_NoSession(t *testing.T) {
	_, err := OpenLeadEngine(context.Background(), entity.Session{}, newMemLeadStore())
	assert.ErrorIs(t, err, entity.ErrNoSession)
}

func TestOpenLeadEngine_StoreFailure(t *testing.T) {
	store := new(MockLeadStore)
	store.On("GetLeads", mock.Anything, testUser.ID).Return(nil, errors.New("io"))

	_, err := OpenLeadEngine(context.Background(), testSession, store)
	assert.True(t, IsTechnicalError(err))
}

func TestLeadEngine_LeadsReturnsCopy(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)

	leads := e.Leads()
	leads[0].Name = "mutated"
	assert.Equal(t, "Jane Doe", e.Leads()[0].Name)
}

func TestLeadEngine_ReplaceAllEmpty(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)

	require.NoError(t, e.ReplaceAll(context.Background(), nil))

	assert.NotNil(t, e.Leads())
	assert.Empty(t, e.Leads())
	assert.Equal(t, entity.LeadStats{}, e.Stats())

	stored, _ := store.GetLeads(context.Background(), testUser.ID)
	assert.Empty(t, stored)
}

func TestLeadEngine_BookFuture(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)
	before := e.Stats().Booked

	at := fixedNow.Add(48 * time.Hour)
	lead, err := e.Book(context.Background(), "jane", at, "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusBooked, lead.Status)
	require.NotNil(t, lead.LastContacted)
	assert.Equal(t, fixedNow, *lead.LastContacted)
	assert.Equal(t, "[System]: Booked consultation for 2026-03-03 09:00", lead.Notes)
	assert.Equal(t, before+1, e.Stats().Booked)

	stored, _ := store.GetLeads(context.Background(), testUser.ID)
	assert.Equal(t, entity.StatusBooked, stored[0].Status)
}

func TestLeadEngine_BookAppendsToNotes(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)

	at := fixedNow.Add(time.Hour)
	lead, err := e.Book(context.Background(), "bob", at, "")
	require.NoError(t, err)
	assert.Equal(t, "old note\n[System]: Booked consultation for 2026-03-01 10:00", lead.Notes)

	lead, err = e.Book(context.Background(), "jane", at, "wants family cover")
	require.NoError(t, err)
	assert.Equal(t, "wants family cover\n[System]: Booked consultation for 2026-03-01 10:00", lead.Notes)
}

func TestLeadEngine_BookRejectsPastOrNow(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)

	for _, at := range []time.Time{{}, fixedNow, fixedNow.Add(-time.Minute)} {
		_, err := e.Book(context.Background(), "jane", at, "")
		assert.ErrorIs(t, err, entity.ErrInvalidSchedule)
	}
	assert.Equal(t, entity.StatusNew, e.Leads()[0].Status)
	assert.Zero(t, store.puts)
}

func TestLeadEngine_NoAnswerRequiresEmail(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)

	_, err := e.NoAnswer(context.Background(), "bob", "")
	assert.ErrorIs(t, err, entity.ErrMissingContactChannel)

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeMissingContactChannel, de.Code)

	bob, _ := e.Lead("bob")
	assert.Equal(t, entity.StatusNew, bob.Status)
	assert.Nil(t, bob.LastContacted)

	lead, err := e.NoAnswer(context.Background(), "jane", "left voicemail")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNoAnswer, lead.Status)
	assert.Equal(t, "left voicemail", lead.Notes)
}

func TestLeadEngine_CancelAndReschedule(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)

	lead, err := e.Cancel(context.Background(), "bob", "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, lead.Status)
	assert.Equal(t, "old note", lead.Notes)

	lead, err = e.Reschedule(context.Background(), "jane", "call after 5")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRescheduled, lead.Status)
	assert.Equal(t, "call after 5", lead.Notes)

	assert.Equal(t, entity.LeadStats{Total: 2, Booked: 0, Calls: 2}, e.Stats())
}

func TestLeadEngine_UnknownLead(t *testing.T) {
	e := openEngine(t, newMemLeadStore())
	_, err := e.Cancel(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
	_, err = e.Lead("ghost")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadEngine_WriteFailureRollsBack(t *testing.T) {
	store := new(MockLeadStore)
	store.On("GetLeads", mock.Anything, testUser.ID).Return(seedLeads(), nil)
	store.On("PutLeads", mock.Anything, testUser.ID, mock.Anything).Return(errors.New("disk full"))

	metrics := new(MockMetrics)
	events := new(MockEventPublisher)
	e := openEngine(t, store, WithMetrics(metrics), WithEventPublisher(events))

	_, err := e.Cancel(context.Background(), "jane", "")
	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))

	jane, _ := e.Lead("jane")
	assert.Equal(t, entity.StatusNew, jane.Status)
	assert.Equal(t, entity.LeadStats{Total: 2}, e.Stats())

	require.Error(t, e.ReplaceAll(context.Background(), nil))
	assert.Len(t, e.Leads(), 2)

	metrics.AssertNotCalled(t, "RecordTransition", mock.Anything)
	events.AssertNotCalled(t, "PublishLeadEvent", mock.Anything, mock.Anything)
}

func TestLeadEngine_PublishesAndRecords(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()

	metrics := new(MockMetrics)
	metrics.On("RecordTransition", entity.StatusNoAnswer).Once()

	events := new(MockEventPublisher)
	events.On("PublishLeadEvent", mock.Anything, LeadEvent{
		UserID:     testUser.ID,
		CallerName: testUser.Name,
		LeadID:     "jane",
		LeadName:   "Jane Doe",
		LeadEmail:  "jane@x.com",
		Status:     entity.StatusNoAnswer,
		OccurredAt: fixedNow,
	}).Return(errors.New("broker down")).Once()

	e := openEngine(t, store, WithMetrics(metrics), WithEventPublisher(events))

	_, err := e.NoAnswer(context.Background(), "jane", "")
	require.NoError(t, err, "publishing is best-effort")

	metrics.AssertExpectations(t)
	events.AssertExpectations(t)
}

// Stats always match the list, whatever sequence of transitions ran.
func TestLeadEngine_StatsInvariantUnderRandomTransitions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	store := newMemLeadStore()

	var leads []entity.Lead
	for i := 0; i < 20; i++ {
		email := ""
		if i%2 == 0 {
			email = "lead@x.com"
		}
		leads = append(leads, entity.NewLead("Lead", "", "0820000000", email, "", "", ""))
	}
	store.lists[testUser.ID] = leads
	e := openEngine(t, store)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		id := leads[rng.Intn(len(leads))].ID
		switch rng.Intn(5) {
		case 0:
			e.Book(ctx, id, fixedNow.Add(time.Hour), "")
		case 1:
			e.Book(ctx, id, fixedNow.Add(-time.Hour), "")
		case 2:
			e.NoAnswer(ctx, id, "")
		case 3:
			e.Cancel(ctx, id, "")
		case 4:
			e.Reschedule(ctx, id, "")
		}

		current := e.Leads()
		booked, calls := 0, 0
		for _, l := range current {
			if l.Status == entity.StatusBooked {
				booked++
			}
			if l.Status != entity.StatusNew {
				calls++
			}
		}
		stats := e.Stats()
		require.Equal(t, len(current), stats.Total)
		require.Equal(t, booked, stats.Booked)
		require.Equal(t, calls, stats.Calls)
		require.Equal(t, stats, entity.ComputeStats(current))
		require.Equal(t, entity.ComputeStats(current), entity.ComputeStats(current))

		stored, _ := store.GetLeads(ctx, testUser.ID)
		require.Equal(t, current, stored)
	}
}

func TestLeadEngine_NeverEntersCalled(t *testing.T) {
	store := newMemLeadStore()
	store.lists[testUser.ID] = seedLeads()
	e := openEngine(t, store)
	ctx := context.Background()

	e.Book(ctx, "jane", fixedNow.Add(time.Hour), "")
	e.NoAnswer(ctx, "jane", "")
	e.Cancel(ctx, "bob", "")
	e.Reschedule(ctx, "bob", "")

	for _, l := range e.Leads() {
		assert.NotEqual(t, entity.StatusCalled, l.Status)
	}
}

func TestParseBookingSlot(t *testing.T) {
	at, err := ParseBookingSlot("2026-03-03", "14:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC), at)

	for _, tc := range [][2]string{{"", "10:00"}, {"2026-03-03", ""}, {"03/03/2026", "10:00"}, {"2026-03-03", "25:00"}} {
		_, err := ParseBookingSlot(tc[0], tc[1], time.UTC)
		assert.ErrorIs(t, err, entity.ErrInvalidSchedule, "%v", tc)
	}
}
