package signaltree

import (
	"errors"
	"fmt"
)

var (
	// ErrNameCollision is returned when a rename targets a name used by
	// another signal of the same message.
	ErrNameCollision = errors.New("there is already a signal with the same name")
	// ErrNoMessage is returned by edits while no message is shown.
	ErrNoMessage = errors.New("no message selected")
	// ErrNotEditable is returned by SetData on read-only rows.
	ErrNotEditable = errors.New("row is not editable")
)

// ValidationError reports user input rejected before any command was
// built. The document is left unchanged.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
