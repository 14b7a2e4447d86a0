package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/calldesk/internal/entity"
)

// MockLeadStore
type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) GetLeads(ctx context.Context, userID string) ([]entity.Lead, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadStore) PutLeads(ctx context.Context, userID string, leads []entity.Lead) error {
	args := m.Called(ctx, userID, leads)
	return args.Error(0)
}

// MockSessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) GetSession(ctx context.Context) (*entity.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionStore) PutSession(ctx context.Context, s entity.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionStore) ClearSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockUserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindUserByEmail(ctx context.Context, email string) (*entity.StoredUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StoredUser), args.Error(1)
}

func (m *MockUserDirectory) CreateUser(ctx context.Context, u *entity.StoredUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserDirectory) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockScriptGenerator
type MockScriptGenerator struct {
	mock.Mock
}

func (m *MockScriptGenerator) GenerateScript(ctx context.Context, lead entity.Lead, caller string) (string, error) {
	args := m.Called(ctx, lead, caller)
	return args.String(0), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadEvent(ctx context.Context, ev LeadEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockMetrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordTransition(status entity.LeadStatus) {
	m.Called(status)
}

func (m *MockMetrics) RecordImport(imported, skipped int) {
	m.Called(imported, skipped)
}

func (m *MockMetrics) RecordScript(outcome string) {
	m.Called(outcome)
}

// memLeadStore is a working LeadStore for property-style tests.
type memLeadStore struct {
	lists map[string][]entity.Lead
	puts  int
}

func newMemLeadStore() *memLeadStore {
	return &memLeadStore{lists: make(map[string][]entity.Lead)}
}

func (s *memLeadStore) GetLeads(_ context.Context, userID string) ([]entity.Lead, error) {
	return cloneLeads(s.lists[userID]), nil
}

func (s *memLeadStore) PutLeads(_ context.Context, userID string, leads []entity.Lead) error {
	s.puts++
	s.lists[userID] = cloneLeads(leads)
	return nil
}
