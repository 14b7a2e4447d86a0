package usecase

import (
	"errors"

	"github.com/xavierca1/calldesk/internal/entity"
)

// DomainError is a user-visible, recoverable failure. Err carries the
// entity sentinel so callers can still use errors.Is.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError means the action could not be completed for a reason the
// user cannot fix (store unavailable, broken file system...).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

const (
	CodeNoValidLeads          = "NO_VALID_LEADS"
	CodeDuplicateEmail        = "DUPLICATE_EMAIL"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeMissingContactChannel = "MISSING_CONTACT_CHANNEL"
	CodeInvalidSchedule       = "INVALID_SCHEDULE"
	CodeLeadNotFound          = "LEAD_NOT_FOUND"
	CodeNoSession             = "NO_SESSION"
	CodeValidation            = "VALIDATION_ERROR"
	CodeStore                 = "STORE_ERROR"
)

var domainCodes = map[error]string{
	entity.ErrNoValidLeads:          CodeNoValidLeads,
	entity.ErrDuplicateEmail:        CodeDuplicateEmail,
	entity.ErrInvalidCredentials:    CodeInvalidCredentials,
	entity.ErrMissingContactChannel: CodeMissingContactChannel,
	entity.ErrInvalidSchedule:       CodeInvalidSchedule,
	entity.ErrLeadNotFound:          CodeLeadNotFound,
	entity.ErrNoSession:             CodeNoSession,
}

func domainErr(sentinel error) *DomainError {
	return &DomainError{
		Code:    domainCodes[sentinel],
		Message: sentinel.Error(),
		Err:     sentinel,
	}
}

func storeErr(msg string, err error) *TechnicalError {
	return &TechnicalError{
		Code:    CodeStore,
		Message: msg + ": " + err.Error(),
		Err:     err,
	}
}
