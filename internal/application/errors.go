package application

import "errors"

var (
	// ErrUnauthorized is returned when no valid token accompanies a protected operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned when a login attempt does not match the roster.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a token's validity window has passed.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a token was explicitly invalidated.
	ErrSessionRevoked = errors.New("application: session revoked")
	// ErrAlreadyBookedToday is returned when the user already owns a slot on the requested day.
	ErrAlreadyBookedToday = errors.New("application: user already holds a reservation on that day")
	// ErrSlotTaken is returned when the requested slot is occupied by any user.
	ErrSlotTaken = errors.New("application: slot already reserved")
	// ErrNoReservation is returned when a cancellation targets a day without a reservation.
	ErrNoReservation = errors.New("application: no reservation on that day")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
