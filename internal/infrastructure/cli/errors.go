package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	goerrors "github.com/TudorHulban/go-errors"

	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
	"github.com/felixgeelhaar/juggler/pkg/storage"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// Exit codes per failure class.
const (
	ExitInvalidInput = 2
	ExitEngine       = 3
)

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var cfgErr goerrors.ErrServiceValidation
	if errors.As(err, &cfgErr) {
		e := NewCLIError("invalid configuration", "Fix juggler.yaml or regenerate it with 'juggler config init --force'", err)
		e.ExitCode = ExitInvalidInput
		return e
	}

	var engineErr *schedule.EngineFailure
	if errors.As(err, &engineErr) {
		hint := "Read the engine diagnostics above; dependency loops and over-allocated resources are the usual causes"
		msg := "scheduling engine failed"
		if engineErr.TimedOut {
			msg = "scheduling engine timed out"
			hint = "Raise engine.timeout in juggler.yaml or schedule fewer projects at once"
		}
		e := NewCLIError(msg, hint, err)
		e.ExitCode = ExitEngine
		return e
	}

	var consistencyErr *schedule.ConsistencyError
	if errors.As(err, &consistencyErr) {
		return NewCLIError(
			"engine returned an inconsistent schedule",
			"Nothing was written; inspect the engine input with 'juggler emit'",
			err,
		)
	}

	switch {
	case errors.Is(err, graph.ErrInvalidGraph):
		e := NewCLIError("invalid project graph", "Check resource, dependency and booking ids in the snapshot", err)
		e.ExitCode = ExitInvalidInput
		return e
	case errors.Is(err, storage.ErrInvalidSnapshot):
		e := NewCLIError("snapshot does not match the expected format", "Each project needs id, name, start and end; each task needs id and name", err)
		e.ExitCode = ExitInvalidInput
		return e
	case errors.Is(err, schedule.ErrFormat):
		return NewCLIError("unexpected engine report", "Check that engine.report_name and calendar.timeformat match what the engine writes", err)
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist) && isStartError(err):
		return NewCLIError("scheduling engine not found", "Install TaskJuggler (gem install taskjuggler) or set JUGGLER_ENGINE_BINARY", err)
	}

	return err
}

func isStartError(err error) bool {
	var execErr *exec.Error
	var pathErr *fs.PathError
	return errors.As(err, &execErr) || (errors.As(err, &pathErr) && pathErr.Op == "fork/exec")
}
