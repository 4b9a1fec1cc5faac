package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	emitOut string
	emitNow string
)

var emitCmd = &cobra.Command{
	Use:   "emit <snapshot>",
	Short: "Print the engine input for a snapshot without running the engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return MapError(err)
		}

		snap, err := loadSnapshot(services, args[0])
		if err != nil {
			return err
		}

		now, err := resolveNow(snap.Now, emitNow)
		if err != nil {
			return err
		}

		dsl, err := services.Scheduler.Preview(snap.Projects, now)
		if err != nil {
			return MapError(err)
		}

		if emitOut == "" {
			fmt.Print(dsl)
			return nil
		}
		if err := os.WriteFile(emitOut, []byte(dsl), 0600); err != nil {
			return fmt.Errorf("write %s: %w", emitOut, err)
		}
		fmt.Printf("Wrote %s\n", emitOut)
		return nil
	},
}

func init() {
	emitCmd.Flags().StringVarP(&emitOut, "out", "o", "", "Write the engine input to this file")
	emitCmd.Flags().StringVar(&emitNow, "now", "", "Emit a now directive for this instant (RFC 3339)")
	RootCmd.AddCommand(emitCmd)
}
