// Package schedule defines the scheduling engine capability, the results it
// produces and how they are reconciled onto the project graph.
package schedule

import (
	"context"
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

// Interval is a computed start/end pair.
type Interval struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Result maps engine tokens to the interval the engine computed. It lives
// for one scheduling call only.
type Result map[string]Interval

// EmitOptions tune the rendering of the engine input.
type EmitOptions struct {
	Now    time.Time // zero means the engine decides
	Header string    // first comment line, e.g. "Generated by juggler v1"
}

// Workspace is the scoped directory an engine run executes in.
type Workspace interface {
	Dir() string
	Release() error
}

// RunResult is the outcome of one engine process. A failed or timed out run
// is not an error: OK is false and Stderr carries the diagnostics.
type RunResult struct {
	OK         bool
	TimedOut   bool
	ExitCode   int
	Stdout     string
	Stderr     string
	ReportPath string
	Duration   time.Duration
	Workspace  Workspace
}

// Release removes the run's workspace. The report path is invalid afterwards.
// Safe to call more than once.
func (r *RunResult) Release() error {
	if r == nil || r.Workspace == nil {
		return nil
	}
	return r.Workspace.Release()
}

// Engine is an external scheduler back end.
type Engine interface {
	// ID names the back end, e.g. "taskjuggler".
	ID() string
	// Emit renders the view in the engine's input language.
	Emit(view *graph.View, opts EmitOptions) (string, error)
	// Run executes the engine on the rendered input. The caller must Release
	// the returned result once the report has been read.
	Run(ctx context.Context, input string, timeout time.Duration) (*RunResult, error)
	// Parse reads a report produced by Run.
	Parse(reportPath string) (Result, error)
}
