package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/calldesk/internal/entity"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUseCase manages the user directory and the single persisted session.
// Login and Register hand back the session context instead of mutating
// shared state; Logout clears it.
type AuthUseCase struct {
	Users    UserDirectory
	Sessions SessionStore
	Hasher   CredentialHasher
}

func NewAuthUseCase(users UserDirectory, sessions SessionStore, hasher CredentialHasher) *AuthUseCase {
	return &AuthUseCase{
		Users:    users,
		Sessions: sessions,
		Hasher:   hasher,
	}
}

// Register creates the account and logs it in.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.Session, error) {
	if errs := ValidateRegisterInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	existing, err := uc.Users.FindUserByEmail(ctx, input.Email)
	switch {
	case err == nil && existing != nil:
		return nil, domainErr(entity.ErrDuplicateEmail)
	case err != nil && !errors.Is(err, entity.ErrUserNotFound):
		return nil, storeErr("failed to look up user", err)
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "failed to hash password", Err: err}
	}

	user, err := entity.NewStoredUser(input.Name, input.Email, hash)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error(), Err: err}
	}
	session := entity.NewSession(user.User)

	txn := NewTransaction()
	txn.AddStep("create_user",
		func(ctx context.Context) error { return uc.Users.CreateUser(ctx, user) },
		func(ctx context.Context) error { return uc.Users.DeleteUser(ctx, user.ID) },
	)
	txn.AddStep("put_session",
		func(ctx context.Context) error { return uc.Sessions.PutSession(ctx, session) },
		nil,
	)
	if err := txn.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrDuplicateEmail) {
			return nil, domainErr(entity.ErrDuplicateEmail)
		}
		return nil, storeErr("failed to register user", err)
	}

	log.Printf("👤 [AUTH] registered %s (%s)", user.Email, user.ID)
	return &session, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*entity.Session, error) {
	if errs := ValidateLoginInput(input); len(errs) > 0 {
		return nil, domainErr(entity.ErrInvalidCredentials)
	}

	user, err := uc.Users.FindUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, domainErr(entity.ErrInvalidCredentials)
		}
		return nil, storeErr("failed to look up user", err)
	}
	if err := uc.Hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, domainErr(entity.ErrInvalidCredentials)
	}

	session := entity.NewSession(user.User)
	if err := uc.Sessions.PutSession(ctx, session); err != nil {
		return nil, storeErr("failed to save session", err)
	}

	log.Printf("🔑 [AUTH] %s logged in", user.Email)
	return &session, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context) error {
	if err := uc.Sessions.ClearSession(ctx); err != nil {
		return storeErr("failed to clear session", err)
	}
	return nil
}

// Current returns the persisted session, or nil when nobody is logged in.
func (uc *AuthUseCase) Current(ctx context.Context) (*entity.Session, error) {
	s, err := uc.Sessions.GetSession(ctx)
	if err != nil {
		return nil, storeErr("failed to read session", err)
	}
	return s, nil
}
