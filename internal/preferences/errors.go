package preferences

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName             = errors.New("name is empty")
	ErrDuplicateName         = errors.New("duplicate name")
	ErrConflictsWithFavorite = errors.New("conflicts with favorite")
	ErrConflictsWithDislike  = errors.New("conflicts with dislike")
	ErrTooLong               = errors.New("text too long")
	ErrMissingFavorite       = errors.New("no favorite foods")
)

// ValidationError pairs a sentinel with the message shown to the caregiver.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(err error, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Err: err, Message: fmt.Sprintf(format, args...)}
}

// UserMessage returns the caregiver-facing text for err.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
