package market

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a booking status change is not in the
// transition table for the booking's current status.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidationError is a refusal caused by missing or malformed input. Callers on
// the client side treat it as "no request was sent".
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
