package services

import (
	"errors"
	"fmt"
)

// Shared service-layer errors, mapped to HTTP statuses by the handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Validation
	ErrTournamentDateRequired = errors.New("tournament date is required")
	ErrCompetitorNameRequired = errors.New("competitor name is required")
	ErrInvalidEvent           = errors.New("unknown event name")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrNothingToCommit        = errors.New("no competitors to commit; run a preview and fix fatal errors first")

	// Conflicts
	ErrTournamentConflict      = errors.New("tournament with this name and date already exists")
	ErrCompetitorNameConflict  = errors.New("competitor name is already in use")
	ErrCompetitorEmailConflict = errors.New("competitor email is already in use")

	// Entity lookups
	ErrCompetitorNotFound = errors.New("competitor not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
)

// TournamentConflictError is returned when a commit collides with an
// existing tournament on (date, name). It carries the conflicting id so
// the caller can inspect or delete the existing record.
type TournamentConflictError struct {
	ExistingID int
}

func (e *TournamentConflictError) Error() string {
	return fmt.Sprintf("tournament with this name and date already exists (id %d)", e.ExistingID)
}

// Unwrap lets errors.Is(err, ErrTournamentConflict) keep working.
func (e *TournamentConflictError) Unwrap() error {
	return ErrTournamentConflict
}
