package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/juggler/internal/infrastructure/config"
	"github.com/felixgeelhaar/juggler/internal/infrastructure/logging"
	"github.com/felixgeelhaar/juggler/internal/infrastructure/watch"
)

var (
	watchOut      string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <snapshot>",
	Short: "Reschedule a snapshot whenever it or juggler.yaml changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		snapshotPath := args[0]

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Failures of later runs are reported and the watch goes on.
		if err := rescheduleOnce(ctx, root, snapshotPath); err != nil {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		}
		if os.Getenv("JUGGLER_WATCH_ONCE") == "true" {
			return nil
		}

		w, err := watch.NewFileWatcher(watchDebounce, func(paths []string) {
			fmt.Printf("\nChange detected at %s: %v\n", time.Now().Format("15:04:05"), paths)
			if err := rescheduleOnce(ctx, root, snapshotPath); err != nil {
				fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			}
		})
		if err != nil {
			return err
		}
		for _, path := range []string{snapshotPath, filepath.Join(root, config.FileName)} {
			if err := w.Add(path); err != nil {
				return err
			}
		}

		fmt.Printf("Watching %s for changes... (Ctrl+C to stop)\n", snapshotPath)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// rescheduleOnce reloads configuration and snapshot so edits to either take
// effect on the next run.
func rescheduleOnce(ctx context.Context, root, snapshotPath string) error {
	services, err := loadServices(root)
	if err != nil {
		return MapError(err)
	}
	snap, err := loadSnapshot(services, snapshotPath)
	if err != nil {
		return err
	}
	now, err := resolveNow(snap.Now, "")
	if err != nil {
		return err
	}

	outcome, err := scheduleSnapshot(logging.WithLogger(ctx, services.Logger), services, snap, now, watchOut)
	if err != nil {
		renderDiagnostics(os.Stderr, outcome)
		return MapError(err)
	}
	renderSchedule(os.Stdout, outcome, snap.Projects)
	if watchOut != "" {
		fmt.Printf("\nWrote %s\n", watchOut)
	}
	return nil
}

func init() {
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "Write the scheduled snapshot to this file after every run")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before rescheduling")
	RootCmd.AddCommand(watchCmd)
}
