package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// RunState is the lifecycle position of one scheduling call.
type RunState string

// State constants double as statekit.StateID values.
const (
	StateBuilt      = "built"
	StateEmitted    = "emitted"
	StateRunning    = "running"
	StateSucceeded  = "succeeded"
	StateFailed     = "failed"
	StateTimedOut   = "timed_out"
	StateParsed     = "parsed"
	StateReconciled = "reconciled"
)

// Events accepted by the run state machine.
const (
	EventEmit      = "emit"
	EventStart     = "start"
	EventSucceed   = "succeed"
	EventFail      = "fail"
	EventTimeout   = "timeout"
	EventParse     = "parse"
	EventReconcile = "reconcile"
)

// RunContext identifies the run the machine tracks.
type RunContext struct {
	RunID string
}

// RunStateMachine enforces
// built -> emitted -> running -> {succeeded, failed, timed_out},
// succeeded -> parsed -> reconciled.
type RunStateMachine struct {
	interpreter *statekit.Interpreter[RunContext]
}

func NewRunStateMachine(runID string) (*RunStateMachine, error) {
	builder := statekit.NewMachine[RunContext]("schedule-run").
		WithInitial(statekit.StateID(StateBuilt)).
		WithContext(RunContext{RunID: runID})

	builder.State(StateBuilt).
		On(EventEmit).Target(StateEmitted).
		Done()

	builder.State(StateEmitted).
		On(EventStart).Target(StateRunning).
		Done()

	builder.State(StateRunning).
		On(EventSucceed).Target(StateSucceeded).
		On(EventFail).Target(StateFailed).
		On(EventTimeout).Target(StateTimedOut).
		Done()

	builder.State(StateSucceeded).
		On(EventParse).Target(StateParsed).
		Done()

	builder.State(StateParsed).
		On(EventReconcile).Target(StateReconciled).
		Done()

	// Terminal states
	builder.State(StateFailed).Done()
	builder.State(StateTimedOut).Done()
	builder.State(StateReconciled).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &RunStateMachine{interpreter: interpreter}, nil
}

// Transition applies an event, failing when the current state does not accept it.
func (sm *RunStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	return fmt.Errorf("%w: %q while %s", ErrInvalidTransition, event, before)
}

func (sm *RunStateMachine) Current() RunState {
	return RunState(sm.interpreter.State().Value)
}

// IsTerminal reports whether no further transition is possible.
func (sm *RunStateMachine) IsTerminal() bool {
	return sm.Current().IsTerminal()
}

// IsTerminal reports whether s ends a run.
func (s RunState) IsTerminal() bool {
	switch s {
	case StateFailed, StateTimedOut, StateReconciled:
		return true
	default:
		return false
	}
}
