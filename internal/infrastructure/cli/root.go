package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// projectPath overrides the directory juggler.yaml is read from.
var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "juggler",
	Version: Version,
	Short:   "Schedule project graphs with TaskJuggler",
	Long: `Juggler hands a snapshot of projects, tasks and resources to TaskJuggler
and writes the computed start and end of every project and task back.

Settings live in juggler.yaml in the working directory (see 'juggler config init').`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&projectPath, "dir", "C", "", "Directory holding juggler.yaml (default: current directory)")
}
