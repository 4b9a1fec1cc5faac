package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	goerrors "github.com/TudorHulban/go-errors"

	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
	"github.com/felixgeelhaar/juggler/pkg/storage"
)

func TestCLIError(t *testing.T) {
	t.Run("Error with cause", func(t *testing.T) {
		cause := errors.New("root cause")
		e := NewCLIError("something failed", "try this", cause)
		if e.Error() != "something failed: root cause" {
			t.Fatalf("unexpected: %s", e.Error())
		}
		if e.ExitCode != 1 {
			t.Fatalf("expected exit code 1, got %d", e.ExitCode)
		}
	})

	t.Run("Error without cause", func(t *testing.T) {
		e := NewCLIError("something failed", "try this", nil)
		if e.Error() != "something failed" {
			t.Fatalf("unexpected: %s", e.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root")
		e := NewCLIError("msg", "", cause)
		if !errors.Is(e, cause) {
			t.Fatal("errors.Is should match wrapped cause")
		}
	})
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
		wantCode int
		wantCLI  bool
	}{
		{
			name: "nil returns nil",
			err:  nil,
		},
		{
			name:     "invalid configuration",
			err:      goerrors.ErrServiceValidation{ServiceName: "Config", Caller: "Validate", Issue: errors.New("bad")},
			wantHint: "juggler config init --force",
			wantCode: ExitInvalidInput,
			wantCLI:  true,
		},
		{
			name:     "engine failure",
			err:      fmt.Errorf("run: %w", &schedule.EngineFailure{ExitCode: 1, Stderr: "loop"}),
			wantHint: "diagnostics",
			wantCode: ExitEngine,
			wantCLI:  true,
		},
		{
			name:     "engine timeout",
			err:      &schedule.EngineFailure{TimedOut: true},
			wantHint: "engine.timeout",
			wantCode: ExitEngine,
			wantCLI:  true,
		},
		{
			name:     "inconsistent schedule",
			err:      &schedule.ConsistencyError{},
			wantHint: "juggler emit",
			wantCode: 1,
			wantCLI:  true,
		},
		{
			name:     "invalid graph",
			err:      &graph.GraphError{Entity: "Task_1", Err: graph.ErrUnknownResource},
			wantHint: "resource, dependency and booking ids",
			wantCode: ExitInvalidInput,
			wantCLI:  true,
		},
		{
			name:     "invalid snapshot",
			err:      &storage.SchemaError{Path: "s.yaml", Issues: []string{"projects is required"}},
			wantHint: "id, name, start and end",
			wantCode: ExitInvalidInput,
			wantCLI:  true,
		},
		{
			name:     "malformed report",
			err:      &schedule.FormatError{Path: "breakdown.csv", Err: errors.New("empty report")},
			wantHint: "report_name",
			wantCode: 1,
			wantCLI:  true,
		},
		{
			name:     "engine missing",
			err:      fmt.Errorf("start engine: %w", &exec.Error{Name: "tj3", Err: exec.ErrNotFound}),
			wantHint: "JUGGLER_ENGINE_BINARY",
			wantCode: 1,
			wantCLI:  true,
		},
		{
			name: "unmapped error passes through",
			err:  errors.New("unknown"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)
			if tt.err == nil {
				if result != nil {
					t.Fatal("expected nil")
				}
				return
			}

			var cliErr *CLIError
			isCLI := errors.As(result, &cliErr)
			if isCLI != tt.wantCLI {
				t.Fatalf("expected CLIError=%v, got %v", tt.wantCLI, isCLI)
			}
			if !isCLI {
				return
			}
			if !strings.Contains(cliErr.Hint, tt.wantHint) {
				t.Errorf("hint = %q, want substring %q", cliErr.Hint, tt.wantHint)
			}
			if cliErr.ExitCode != tt.wantCode {
				t.Errorf("exit code = %d, want %d", cliErr.ExitCode, tt.wantCode)
			}
			if !errors.Is(result, tt.err) {
				t.Error("mapped error should wrap the original")
			}
		})
	}
}

func TestMapError_PassesCLIErrorThrough(t *testing.T) {
	orig := NewCLIError("custom", "custom hint", nil)
	if got := MapError(orig); got != orig {
		t.Fatalf("expected same error, got %v", got)
	}
}
