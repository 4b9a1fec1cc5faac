package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/juggler/internal/infrastructure/config"
	"github.com/felixgeelhaar/juggler/internal/infrastructure/watch"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	return buf.String()
}

// resetFlags restores flag variables that survive between Execute calls.
func resetFlags() {
	projectPath = ""
	scheduleJSON, scheduleOut, scheduleNow = false, "", ""
	emitOut, emitNow = "", ""
	configForce = false
	viewSchedule = false
	watchOut, watchDebounce = "", watch.DefaultDebounce
}

// execute runs the root command with args against project directory dir and
// returns what it printed to stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var errBuf bytes.Buffer
	RootCmd.SetErr(&errBuf)
	RootCmd.SilenceErrors = true
	RootCmd.SetArgs(append([]string{"-C", dir}, args...))

	var err error
	out := captureStdout(t, func() {
		err = RootCmd.Execute()
	})
	return out, err
}

const testSnapshot = `now: 2013-04-04T10:00:00Z
projects:
  - id: 1
    name: Test Project 1
    start: 2013-04-04T00:00:00Z
    end: 2013-05-04T00:00:00Z
    resources:
      - {id: u1, name: User1}
    tasks:
      - {id: "31", name: Task1, effort: 50h, resources: [u1]}
      - {id: "32", name: Task2, effort: 4h, resources: [u1]}
`

// reportScript writes a report scheduling the project and Task_31 only.
const reportScript = `cat > "$2/breakdown.csv" <<'EOF'
"Id";"Start";"End"
"Project_1";"2013-04-04-10:00";"2013-04-08-17:00"
"Project_1.Task_31";"2013-04-04-10:00";"2013-04-08-17:00"
EOF`

// setupProject creates a project directory holding the test snapshot and a
// fake engine binary running script. It returns the directory and the
// snapshot path.
func setupProject(t *testing.T, script string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	bin := filepath.Join(dir, "tj3")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvEngineBinary, bin)

	snapshot := filepath.Join(dir, "snapshot.yaml")
	if err := os.WriteFile(snapshot, []byte(testSnapshot), 0600); err != nil {
		t.Fatal(err)
	}
	return dir, snapshot
}
