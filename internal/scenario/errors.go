package scenario

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyScenario   = errors.New("scenario: no frames to run")
	ErrInvalidEvent    = errors.New("scenario: invalid event")
	ErrUnknownScenario = errors.New("scenario: unknown scenario")
)

// EventError reports which event of a scenario failed.
type EventError struct {
	Index   int
	Frame   int
	Wrapped error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %d at frame %d: %v", e.Index, e.Frame, e.Wrapped)
}

func (e *EventError) Unwrap() error {
	return e.Wrapped
}
