package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/juggler/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/juggler/pkg/application"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

var (
	scheduleJSON bool
	scheduleOut  string
	scheduleNow  string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <snapshot>",
	Short: "Run the engine over a snapshot and print the computed intervals",
	Long: `Schedule loads a YAML or JSON snapshot, runs the scheduling engine over all of
its projects and prints the computed start and end of every project and task.

Flags:
  --out    Write the snapshot with computed intervals to a file (.json or .yaml)
  --json   Print the outcome as JSON
  --now    Schedule from this instant (RFC 3339) instead of the snapshot's now`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

// scheduleResult is the --json output.
type scheduleResult struct {
	*application.Outcome
	Projects []*graph.Project `json:"projects"`
}

func runSchedule(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return MapError(err)
	}

	snap, err := loadSnapshot(services, args[0])
	if err != nil {
		return err
	}

	now, err := resolveNow(snap.Now, scheduleNow)
	if err != nil {
		return err
	}

	outcome, err := scheduleSnapshot(commandContext(cmd, services), services, snap, now, scheduleOut)
	if err != nil {
		renderDiagnostics(os.Stderr, outcome)
		return MapError(err)
	}

	if scheduleJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scheduleResult{Outcome: outcome, Projects: snap.Projects})
	}

	renderSchedule(os.Stdout, outcome, snap.Projects)
	if scheduleOut != "" {
		fmt.Printf("\nWrote %s\n", scheduleOut)
	}
	return nil
}

// scheduleSnapshot schedules snap and, on success, saves it to out when set.
func scheduleSnapshot(ctx context.Context, services *wiring.AppServices, snap *graph.Snapshot, now time.Time, out string) (*application.Outcome, error) {
	outcome, err := services.Scheduler.Schedule(ctx, snap.Projects, now)
	if err != nil {
		return outcome, err
	}
	if out != "" {
		if err := services.Workspace.Repo.SaveSnapshot(out, snap); err != nil {
			return outcome, fmt.Errorf("save schedule: %w", err)
		}
	}
	return outcome, nil
}

// resolveNow prefers the flag, then the snapshot, then the wall clock.
func resolveNow(snapshotNow time.Time, flag string) (time.Time, error) {
	if flag != "" {
		t, err := time.Parse(time.RFC3339, flag)
		if err != nil {
			return time.Time{}, NewCLIError("invalid --now", "Use RFC 3339, e.g. 2013-04-04T10:00:00Z", err)
		}
		return t, nil
	}
	if !snapshotNow.IsZero() {
		return snapshotNow, nil
	}
	return time.Now(), nil
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "Output in JSON format")
	scheduleCmd.Flags().StringVarP(&scheduleOut, "out", "o", "", "Write the scheduled snapshot to this file")
	scheduleCmd.Flags().StringVar(&scheduleNow, "now", "", "Schedule from this instant (RFC 3339)")
	RootCmd.AddCommand(scheduleCmd)
}
