package taskjuggler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
)

// Placeholders substituted in runner arguments.
const (
	WorkspacePlaceholder = "{workspace}"
	InputPlaceholder     = "{input}"
)

// InputFileName is the name the rendered input is written under.
const InputFileName = "plan.tjp"

// DefaultArgs makes tj3 write its reports into the run workspace.
var DefaultArgs = []string{"--output-dir", WorkspacePlaceholder, InputPlaceholder}

// Runner executes the engine binary once per call, each time in a fresh
// workspace directory.
type Runner struct {
	Binary     string
	Args       []string
	BaseDir    string // parent of the workspaces; os.TempDir() when empty
	ReportName string
}

// Run writes input into a new workspace and executes the engine there. A
// non-zero exit or an elapsed timeout is reported through the result, not
// as an error. Errors are reserved for runs that could not be set up or
// were cancelled by the caller; the workspace is already released then.
func (r *Runner) Run(ctx context.Context, input string, timeout time.Duration) (*schedule.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Binary == "" {
		return nil, errors.New("engine binary not configured")
	}

	ws, err := newWorkspace(r.BaseDir)
	if err != nil {
		return nil, err
	}

	res, err := r.run(ctx, ws, input, timeout)
	if err != nil {
		_ = ws.Release()
		return nil, err
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, ws *workspace, input string, timeout time.Duration) (*schedule.RunResult, error) {
	inputPath := filepath.Join(ws.Dir(), InputFileName)
	if err := os.WriteFile(inputPath, []byte(input), 0o600); err != nil {
		return nil, fmt.Errorf("write engine input: %w", err)
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.Command(r.Binary, expandArgs(r.args(), ws.Dir(), inputPath)...)
	cmd.Dir = ws.Dir()
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %s: %w", r.Binary, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	res := &schedule.RunResult{Workspace: ws}

	var waitErr error
	select {
	case <-runCtx.Done():
		killProcessGroup(cmd)
		<-done
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("engine run cancelled: %w", ctx.Err())
		}
		res.TimedOut = true
		res.ExitCode = -1
	case waitErr = <-done:
		switch {
		case waitErr == nil:
			res.OK = true
			res.ReportPath = filepath.Join(ws.Dir(), r.ReportName+".csv")
		default:
			var exitErr *exec.ExitError
			if !errors.As(waitErr, &exitErr) {
				return nil, fmt.Errorf("wait for engine: %w", waitErr)
			}
			res.ExitCode = exitErr.ExitCode()
		}
	}

	res.Duration = time.Since(started)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res, nil
}

func (r *Runner) args() []string {
	if len(r.Args) == 0 {
		return DefaultArgs
	}
	return r.Args
}

func expandArgs(args []string, dir, input string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		a = strings.ReplaceAll(a, WorkspacePlaceholder, dir)
		out[i] = strings.ReplaceAll(a, InputPlaceholder, input)
	}
	return out
}

type workspace struct {
	dir  string
	once sync.Once
	err  error
}

func newWorkspace(base string) (*workspace, error) {
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace base: %w", err)
	}
	dir := filepath.Join(base, "juggler-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &workspace{dir: dir}, nil
}

func (w *workspace) Dir() string {
	return w.dir
}

// Release removes the workspace tree. Later calls return the first result.
func (w *workspace) Release() error {
	w.once.Do(func() {
		w.err = os.RemoveAll(w.dir)
	})
	return w.err
}
