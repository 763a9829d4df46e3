package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/rigup/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent provisioning run",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := pipeline.DefaultStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		run, err := store.Latest()
		if err != nil {
			return err
		}
		if run == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No provisioning runs recorded.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Run %s\n", run.ID)
		fmt.Fprintf(w, "  Status:   %s\n", run.Status)
		fmt.Fprintf(w, "  Progress: %d/%d\n", run.CurrentStep, run.TotalSteps)
		if run.FailedStep != "" {
			fmt.Fprintf(w, "  Failed:   %s\n", run.FailedStep)
		}
		fmt.Fprintf(w, "  App dir:  %s\n", run.HostPaths.AppDir)
		fmt.Fprintf(w, "  SDK dir:  %s\n", run.HostPaths.RepoRoot)
		fmt.Fprintf(w, "  Started:  %s\n", run.StartedAt)
		if run.FinishedAt != "" {
			fmt.Fprintf(w, "  Finished: %s\n", run.FinishedAt)
		}
		return nil
	},
}
