package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/rigup/internal/db"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded step events from previous runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := db.DefaultDBPath()
		if err != nil {
			return err
		}
		history, err := db.Open(path)
		if err != nil {
			return fmt.Errorf("open history database: %w", err)
		}
		defer history.Close()
		if err := history.Migrate(); err != nil {
			return err
		}

		events, err := history.ListEvents(historyLimit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No step events recorded.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-20s %-18s %-4s %-32s %s\n", "TIMESTAMP", "RUN", "N", "STEP", "EVENT")
		for _, e := range events {
			fmt.Fprintf(w, "%-20s %-18s %-4d %-32s %s\n",
				e.Timestamp, e.RunID, e.Ordinal, e.Step, e.Event)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum events to show")
}
