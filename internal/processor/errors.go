package processor

import (
	"errors"
	"fmt"
)

// Base error types for the pipeline.
var (
	// ErrOracleUnavailable marks a generation oracle that cannot be called
	// at all (missing credential, unsupported provider). Fatal, no retry.
	ErrOracleUnavailable = errors.New("generation oracle unavailable")

	// ErrEmptyRequirements is raised when the job-requirements stage yields
	// four empty lists. Treated as a validator failure, so it is retried
	// before becoming fatal.
	ErrEmptyRequirements = errors.New("job requirements empty")

	// ErrEmptyResume is raised when there is no resume text to chunk.
	ErrEmptyResume = errors.New("resume text empty")
)

// StageError is the terminal failure of one generation stage after the
// retry budget is exhausted. RawSnippet carries the last raw oracle
// response truncated to a safe length, never the full payload.
type StageError struct {
	Stage      string
	Attempts   int
	LastErr    error
	RawSnippet string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q failed after %d attempt(s): %v; last raw response: %s",
		e.Stage, e.Attempts, e.LastErr, e.RawSnippet)
}

func (e *StageError) Unwrap() error {
	return e.LastErr
}
