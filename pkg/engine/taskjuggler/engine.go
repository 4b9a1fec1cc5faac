package taskjuggler

import (
	"context"
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
)

// ID identifies this back end.
const ID = "taskjuggler"

// DefaultReportName is the taskreport name used when none is configured.
const DefaultReportName = "breakdown"

// Options configure an Engine.
type Options struct {
	Binary        string
	Args          []string
	WorkspaceBase string
	ReportName    string
	// ReportCalendar sets the report's time format and zone.
	ReportCalendar *calendar.Calendar
	// MergeProjects wraps multi-project batches in one project block.
	MergeProjects bool
}

// Engine is the TaskJuggler back end.
type Engine struct {
	emitter *Emitter
	runner  *Runner
	parser  *Parser
}

var _ schedule.Engine = (*Engine)(nil)

// New wires an emitter, runner and parser sharing one report name and
// report calendar.
func New(opts Options) *Engine {
	if opts.ReportName == "" {
		opts.ReportName = DefaultReportName
	}
	if opts.ReportCalendar == nil {
		opts.ReportCalendar = calendar.Standard()
	}
	emitter := NewEmitter(opts.ReportName, opts.ReportCalendar)
	emitter.MergeProjects = opts.MergeProjects

	return &Engine{
		emitter: emitter,
		runner: &Runner{
			Binary:     opts.Binary,
			Args:       opts.Args,
			BaseDir:    opts.WorkspaceBase,
			ReportName: opts.ReportName,
		},
		parser: NewParser(opts.ReportCalendar),
	}
}

func (e *Engine) ID() string {
	return ID
}

func (e *Engine) Emit(view *graph.View, opts schedule.EmitOptions) (string, error) {
	return e.emitter.Emit(view, opts)
}

func (e *Engine) Run(ctx context.Context, input string, timeout time.Duration) (*schedule.RunResult, error) {
	return e.runner.Run(ctx, input, timeout)
}

func (e *Engine) Parse(reportPath string) (schedule.Result, error) {
	return e.parser.Parse(reportPath)
}
