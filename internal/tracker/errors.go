package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperengineering/selfhelp/internal/validation"
)

// Error taxonomy returned by every Service operation. Callers test with
// errors.Is.
var (
	// ErrNotFound means the resource, or the caller's account, does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the resource exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput means a request was malformed or out of range.
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidInputError carries per-field validation failures. It matches
// ErrInvalidInput under errors.Is.
type InvalidInputError struct {
	Errors []validation.ValidationError
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + " " + fe.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// invalid returns nil when errs is empty.
func invalid(errs []validation.ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return &InvalidInputError{Errors: errs}
}
