package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Schedule domain errors.
var (
	// ErrFormat matches every FormatError.
	ErrFormat = errors.New("malformed engine report")
	// ErrEngine matches every EngineFailure.
	ErrEngine = errors.New("scheduling engine failed")
	// ErrTimeout matches an EngineFailure caused by the run exceeding its timeout.
	ErrTimeout = errors.New("scheduling engine timed out")
	// ErrConsistency matches every ConsistencyError.
	ErrConsistency = errors.New("schedule violates graph constraints")
	// ErrInvalidTransition indicates a run state machine event not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid run state transition")
)

// FormatError reports malformed or unexpected engine output. Row is 1-based
// and counts the header; zero means the file as a whole.
type FormatError struct {
	Path string
	Row  int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed engine report %s (row %d): %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("malformed engine report %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrFormat) for every FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// EngineFailure carries the diagnostics of a failed or timed out engine run.
// The stderr text usually names the infeasibility (cyclic dependency,
// over-allocation) and is meant to be shown to the user verbatim.
type EngineFailure struct {
	ExitCode int
	TimedOut bool
	Timeout  time.Duration
	Stderr   string
}

func (e *EngineFailure) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("scheduling engine timed out after %s", e.Timeout)
	}
	msg := fmt.Sprintf("scheduling engine failed (exit %d)", e.ExitCode)
	if diag := strings.TrimSpace(e.Stderr); diag != "" {
		msg += ": " + diag
	}
	return msg
}

// Is allows errors.Is(err, ErrEngine), and ErrTimeout for timed out runs.
func (e *EngineFailure) Is(target error) bool {
	return target == ErrEngine || (e.TimedOut && target == ErrTimeout)
}

// Violation is one broken scheduling invariant.
type Violation struct {
	Token string
	Other string
	Rule  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s %s", v.Token, v.Rule, v.Other)
}

// ConsistencyError reports computed intervals that break dependency or
// containment invariants. It points at a solver defect or malformed input
// and is never corrected silently.
type ConsistencyError struct {
	Violations []Violation
}

func (e *ConsistencyError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "inconsistent schedule: " + strings.Join(parts, "; ")
}

// Is allows errors.Is(err, ErrConsistency) for every ConsistencyError.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}
