package usecase

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128
	maxNameLength     = 200
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateRegisterInput(input RegisterInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > maxNameLength {
		errors = append(errors, ValidationError{"name", fmt.Sprintf("must not exceed %d characters", maxNameLength)})
	}

	errors = append(errors, validateEmail(input.Email)...)

	if len(input.Password) < minPasswordLength {
		errors = append(errors, ValidationError{"password", fmt.Sprintf("must have at least %d characters", minPasswordLength)})
	} else if len(input.Password) > maxPasswordLength {
		errors = append(errors, ValidationError{"password", fmt.Sprintf("must not exceed %d characters", maxPasswordLength)})
	}

	return errors
}

func ValidateLoginInput(input LoginInput) []ValidationError {
	errors := validateEmail(input.Email)
	if input.Password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	}
	return errors
}

func validateEmail(email string) []ValidationError {
	if strings.TrimSpace(email) == "" {
		return []ValidationError{{"email", "is required"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []ValidationError{{"email", "is invalid"}}
	}
	return nil
}

func validationFailure(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
