package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/juggler/internal/infrastructure/logging"
	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
)

// DefaultTimeout bounds an engine run when none is configured.
const DefaultTimeout = 2 * time.Minute

// Outcome describes one scheduling call, successful or not.
type Outcome struct {
	RunID       string            `json:"run_id"`
	Engine      string            `json:"engine"`
	State       schedule.RunState `json:"state"`
	Report      *schedule.Report  `json:"report,omitempty"`
	Diagnostics string            `json:"diagnostics,omitempty"`
	DSL         string            `json:"-"`
	Duration    time.Duration     `json:"duration"`
}

// SchedulerService runs the external engine over a batch of projects and
// writes the computed intervals back onto them.
type SchedulerService struct {
	engine     schedule.Engine
	calendar   *calendar.Calendar
	timeout    time.Duration
	header     string
	reconciler *schedule.Reconciler
}

// NewSchedulerService creates a scheduler service. cal is used for projects
// without a calendar of their own.
func NewSchedulerService(engine schedule.Engine, cal *calendar.Calendar, timeout time.Duration) *SchedulerService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SchedulerService{
		engine:     engine,
		calendar:   cal,
		timeout:    timeout,
		header:     "Generated by juggler",
		reconciler: schedule.NewReconciler(),
	}
}

// WithHeader sets the comment line the engine input starts with.
func (s *SchedulerService) WithHeader(header string) *SchedulerService {
	s.header = header
	return s
}

// Preview renders the engine input for projects without running the engine.
func (s *SchedulerService) Preview(projects []*graph.Project, now time.Time) (string, error) {
	view, err := graph.NewView(projects, s.calendar)
	if err != nil {
		return "", err
	}
	return s.engine.Emit(view, schedule.EmitOptions{Now: now, Header: s.header})
}

// Schedule computes start and end for every project and task and writes them
// to their Computed fields. On any error no computed field is modified.
//
// Calls sharing projects or tasks must be serialized by the caller.
func (s *SchedulerService) Schedule(ctx context.Context, projects []*graph.Project, now time.Time) (*Outcome, error) {
	runID := uuid.NewString()
	logger := logging.FromContext(ctx).With("run", runID, "engine", s.engine.ID())

	sm, err := schedule.NewRunStateMachine(runID)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{RunID: runID, Engine: s.engine.ID(), State: sm.Current()}
	advance := func(event string) error {
		if err := sm.Transition(event); err != nil {
			return err
		}
		outcome.State = sm.Current()
		logger.Debug("run state changed", "state", outcome.State)
		return nil
	}

	view, err := graph.NewView(projects, s.calendar)
	if err != nil {
		return outcome, err
	}

	dsl, err := s.engine.Emit(view, schedule.EmitOptions{Now: now, Header: s.header})
	if err != nil {
		return outcome, fmt.Errorf("emit engine input: %w", err)
	}
	outcome.DSL = dsl
	if err := advance(schedule.EventEmit); err != nil {
		return outcome, err
	}

	if err := advance(schedule.EventStart); err != nil {
		return outcome, err
	}
	logger.Info("engine started", "projects", len(view.Projects()), "tasks", len(view.Tasks()), "timeout", s.timeout)

	res, err := s.engine.Run(ctx, dsl, s.timeout)
	if err != nil {
		_ = advance(schedule.EventFail)
		return outcome, fmt.Errorf("run engine: %w", err)
	}
	defer func() {
		if err := res.Release(); err != nil {
			logger.Warn("failed to release engine workspace", "error", err)
		}
	}()

	outcome.Duration = res.Duration
	outcome.Diagnostics = res.Stderr

	switch {
	case res.TimedOut:
		_ = advance(schedule.EventTimeout)
		logger.Error("engine timed out", "timeout", s.timeout)
		return outcome, &schedule.EngineFailure{TimedOut: true, Timeout: s.timeout, ExitCode: res.ExitCode, Stderr: res.Stderr}
	case !res.OK:
		_ = advance(schedule.EventFail)
		logger.Error("engine failed", "exit_code", res.ExitCode, "stderr", res.Stderr)
		return outcome, &schedule.EngineFailure{ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	if err := advance(schedule.EventSucceed); err != nil {
		return outcome, err
	}
	logger.Info("engine finished", "duration", res.Duration)

	result, err := s.engine.Parse(res.ReportPath)
	if err != nil {
		return outcome, err
	}
	if err := advance(schedule.EventParse); err != nil {
		return outcome, err
	}

	report, err := s.reconciler.Apply(result, view)
	if err != nil {
		logger.Error("schedule rejected", "error", err)
		return outcome, err
	}
	for _, ref := range report.Unscheduled {
		logger.Warn("entity not scheduled by engine", "kind", ref.Kind, "id", ref.ID, "token", ref.Token)
	}
	outcome.Report = report
	if err := advance(schedule.EventReconcile); err != nil {
		return outcome, err
	}

	logger.Info("schedule applied", "updated", len(report.Updated), "unscheduled", len(report.Unscheduled))
	return outcome, nil
}
