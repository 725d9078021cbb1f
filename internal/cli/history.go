package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/appbuilder/internal/report"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent generation runs, or replay the lines of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				entries, err := store.Entries(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				console := report.NewConsole(out)
				for _, e := range entries {
					console.Emit(report.Entry{Level: report.Level(e.Level), Message: e.Message, Detail: e.Detail, Time: e.At})
				}
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOMMAND\tSTATUS\tGENERATED\tSKIPPED\tSTARTED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID, r.Command, r.Status, r.Generated, r.Skipped, r.StartedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int("limit", 20, "Number of runs to list")
	return cmd
}
