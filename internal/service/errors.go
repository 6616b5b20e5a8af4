package service

import (
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors the handlers map to HTTP statuses. Services wrap these with
// fmt.Errorf("%w: ...") when more context helps.
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("access denied")
	ErrSelfDeletion       = errors.New("cannot delete own account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrDuplicate          = errors.New("record already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

// Actor identifies who is performing a request, as extracted from the JWT by
// the middleware. EmployeeID is empty for accounts without an employee record.
type Actor struct {
	UserID     string
	Email      string
	Role       string
	EmployeeID string
	IPAddress  string
	UserAgent  string
}

// userUUID parses the actor's user ID for audit rows; a malformed ID yields
// nil rather than failing the mutation.
func (a Actor) userUUID() *uuid.UUID {
	if parsed, err := uuid.Parse(a.UserID); err == nil {
		return &parsed
	}
	return nil
}
