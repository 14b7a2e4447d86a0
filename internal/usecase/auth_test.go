package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/calldesk/internal/entity"
)

func newAuth() (*AuthUseCase, *MockUserDirectory, *MockSessionStore, *MockHasher) {
	users := new(MockUserDirectory)
	sessions := new(MockSessionStore)
	hasher := new(MockHasher)
	return NewAuthUseCase(users, sessions, hasher), users, sessions, hasher
}

func TestAuth_RegisterSuccess(t *testing.T) {
	ctx := context.Background()
	uc, users, sessions, hasher := newAuth()

	users.On("FindUserByEmail", ctx, "ann@bc.com").Return(nil, entity.ErrUserNotFound)
	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("CreateUser", ctx, mock.MatchedBy(func(u *entity.StoredUser) bool {
		return u.Name == "Ann" && u.Email == "ann@bc.com" && u.PasswordHash == "hashed" && u.ID != ""
	})).Return(nil)
	sessions.On("PutSession", ctx, mock.MatchedBy(func(s entity.Session) bool {
		return s.User.Name == "Ann"
	})).Return(nil)

	session, err := uc.Register(ctx, RegisterInput{Name: " Ann ", Email: "ann@bc.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", session.User.Name)
	assert.NotEmpty(t, session.User.ID)

	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	uc, users, _, hasher := newAuth()

	users.On("FindUserByEmail", ctx, "ann@bc.com").Return(&entity.StoredUser{User: entity.User{ID: "u1"}}, nil)

	_, err := uc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@bc.com", Password: "secret1"})
	assert.ErrorIs(t, err, entity.ErrDuplicateEmail)
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestAuth_RegisterRaceOnCreate(t *testing.T) {
	ctx := context.Background()
	uc, users, _, hasher := newAuth()

	users.On("FindUserByEmail", ctx, "ann@bc.com").Return(nil, entity.ErrUserNotFound)
	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("CreateUser", ctx, mock.Anything).Return(entity.ErrDuplicateEmail)

	_, err := uc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@bc.com", Password: "secret1"})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeDuplicateEmail, de.Code)
}

func TestAuth_RegisterSessionFailureRemovesUser(t *testing.T) {
	ctx := context.Background()
	uc, users, sessions, hasher := newAuth()

	var created *entity.StoredUser
	users.On("FindUserByEmail", ctx, "ann@bc.com").Return(nil, entity.ErrUserNotFound)
	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("CreateUser", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.StoredUser)
	}).Return(nil)
	sessions.On("PutSession", ctx, mock.Anything).Return(errors.New("disk full"))
	users.On("DeleteUser", ctx, mock.Anything).Return(nil)

	_, err := uc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@bc.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))

	require.NotNil(t, created)
	users.AssertCalled(t, "DeleteUser", ctx, created.ID)
}

func TestAuth_RegisterValidation(t *testing.T) {
	uc, users, _, _ := newAuth()

	_, err := uc.Register(context.Background(), RegisterInput{Name: "", Email: "bad", Password: "123"})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Contains(t, de.Message, "name")
	assert.Contains(t, de.Message, "email")
	assert.Contains(t, de.Message, "password")
	users.AssertNotCalled(t, "FindUserByEmail", mock.Anything, mock.Anything)
}

func TestAuth_LoginSuccess(t *testing.T) {
	ctx := context.Background()
	uc, users, sessions, hasher := newAuth()

	stored := &entity.StoredUser{User: entity.User{ID: "u1", Name: "Ann", Email: "ann@bc.com"}, PasswordHash: "hashed"}
	users.On("FindUserByEmail", ctx, "ANN@bc.com").Return(stored, nil)
	hasher.On("Compare", "hashed", "secret1").Return(nil)
	sessions.On("PutSession", ctx, mock.MatchedBy(func(s entity.Session) bool {
		return s.User == stored.User
	})).Return(nil)

	session, err := uc.Login(ctx, LoginInput{Email: "ANN@bc.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, stored.User, session.User)
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	uc, users, _, hasher := newAuth()

	stored := &entity.StoredUser{User: entity.User{ID: "u1"}, PasswordHash: "hashed"}
	users.On("FindUserByEmail", ctx, "ann@bc.com").Return(stored, nil)
	users.On("FindUserByEmail", ctx, "ghost@bc.com").Return(nil, entity.ErrUserNotFound)
	hasher.On("Compare", "hashed", "wrong").Return(errors.New("mismatch"))

	for _, in := range []LoginInput{
		{Email: "ann@bc.com", Password: "wrong"},
		{Email: "ghost@bc.com", Password: "secret1"},
		{Email: "not-an-email", Password: "x"},
	} {
		_, err := uc.Login(ctx, in)
		assert.ErrorIs(t, err, entity.ErrInvalidCredentials, "%+v", in)
	}
}

func TestAuth_LogoutAndCurrent(t *testing.T) {
	ctx := context.Background()
	uc, _, sessions, _ := newAuth()

	sessions.On("ClearSession", ctx).Return(nil)
	sessions.On("GetSession", ctx).Return(nil, nil).Once()

	require.NoError(t, uc.Logout(ctx))
	s, err := uc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	sessions.On("GetSession", ctx).Return(nil, errors.New("io")).Once()
	_, err = uc.Current(ctx)
	assert.True(t, IsTechnicalError(err))
}
