package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsafeContent is returned when a generated text contains a forbidden word.
	ErrUnsafeContent = errors.New("generated content rejected as unsafe")
	// ErrNoGenerator is returned when AI is disabled and demo mode is off.
	ErrNoGenerator = errors.New("no text generator configured")
	// ErrEmptyInput is returned for operations whose main input is blank.
	ErrEmptyInput = errors.New("input is empty")
)

// GenerationError reports a generator that gave up after one or more attempts.
type GenerationError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
