package contract

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownServiceType = errors.New("unknown service type")
	ErrDuplicateSession   = errors.New("session already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionComplete    = errors.New("session already completed")
	ErrInvalidSession     = errors.New("session id is empty")
	ErrFulfillment        = errors.New("fulfillment failed")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidTransition  = errors.New("invalid booking transition")
)

// ValidationError reports an answer that failed its slot type check.
// It never advances the session.
type ValidationError struct {
	SlotKey string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.SlotKey == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.SlotKey, e.Reason)
}

func NewValidationError(slotKey, reason string) *ValidationError {
	return &ValidationError{SlotKey: slotKey, Reason: reason}
}
