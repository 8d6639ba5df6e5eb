package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFirstStep is returned when retreating from the first step.
	ErrFirstStep = errors.New("already at the first step")

	// ErrAcknowledgmentRequired is returned when generation is
	// attempted without the legal notice acknowledgment set. No
	// backend call is made in that case.
	ErrAcknowledgmentRequired = errors.New("legal acknowledgment required")

	// ErrCompleted is returned when a session that already produced a
	// document is asked to navigate or generate again.
	ErrCompleted = errors.New("session already completed")

	// ErrUnknownRow is returned when removing a row key that is not in
	// the working set.
	ErrUnknownRow = errors.New("unknown row")
)

// ValidationError reports the required fields left blank on advance.
// The session's step and draft are unchanged when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}

// GenerationError wraps a backend failure during the save-then-generate
// sequence. Saved reports whether the draft was persisted before the
// failure; when true the draft carries its assigned ID and generation
// can be retried.
type GenerationError struct {
	Saved bool
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Saved {
		return fmt.Sprintf("draft saved but generation failed: %v", e.Err)
	}
	return fmt.Sprintf("saving draft failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
