package entity

import "errors"

var (
	ErrNoValidLeads = errors.New("no valid leads found, check your column headers (Name, Phone, Email)")

	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoSession          = errors.New("no active session")

	ErrLeadNotFound = errors.New("lead not found")
	// ErrMissingContactChannel is a precondition failure, not a fatal error.
	ErrMissingContactChannel = errors.New("no email address found for this lead")
	ErrInvalidSchedule       = errors.New("please select a valid future date and time")

	ErrGeneratorNotConfigured = errors.New("script generator api key is missing")
)
