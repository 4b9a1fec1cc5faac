package schedule_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
)

func TestEngineFailure(t *testing.T) {
	failed := &schedule.EngineFailure{ExitCode: 1, Stderr: "Error: Loop detected at Task_31\n"}
	if !errors.Is(failed, schedule.ErrEngine) || errors.Is(failed, schedule.ErrTimeout) {
		t.Fatal("exit failure should match ErrEngine only")
	}
	if !strings.Contains(failed.Error(), "Loop detected at Task_31") {
		t.Errorf("diagnostics missing: %s", failed.Error())
	}

	timedOut := &schedule.EngineFailure{TimedOut: true, Timeout: 2 * time.Second}
	wrapped := fmt.Errorf("schedule: %w", timedOut)
	if !errors.Is(wrapped, schedule.ErrTimeout) || !errors.Is(wrapped, schedule.ErrEngine) {
		t.Fatal("timeout should match both sentinels")
	}
}

func TestFormatError(t *testing.T) {
	err := &schedule.FormatError{Path: "plan.csv", Row: 3, Err: errors.New("bad timestamp")}
	if !errors.Is(err, schedule.ErrFormat) {
		t.Fatal("should match ErrFormat")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("row not named: %s", err.Error())
	}
	whole := &schedule.FormatError{Path: "plan.csv", Err: errors.New("empty")}
	if strings.Contains(whole.Error(), "row") {
		t.Errorf("file level error mentions a row: %s", whole.Error())
	}
}

func TestRunResult_ReleaseNil(t *testing.T) {
	var r *schedule.RunResult
	if err := r.Release(); err != nil {
		t.Fatal(err)
	}
	if err := (&schedule.RunResult{}).Release(); err != nil {
		t.Fatal(err)
	}
}
