package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "rigup",
	Short: "rigup - appliance provisioning orchestrator",
	Long: `rigup takes a bare OS image to a running, auto-starting camera appliance:
it validates the host, backs up pre-existing state, builds the execution
environment, installs system and Python dependencies, provisions the
accelerator SDK, registers the systemd service, and generates the launch
artifacts for the graphical session.

All state is stored in ~/.rigup/ (SQLite for step events, JSON for run records).`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(netinfoCmd)
}
