package engine

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey signals that no provider credential was configured. It is
// a caller-side condition, reported as a 400 rather than a busy engine.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable is not set")

// EngineError wraps any provider failure, including a failed post-retry
// attempt, behind one uniform condition.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("story engine error: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
