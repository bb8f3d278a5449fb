package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reports/internal/runlog"
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent report and import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			entries, err := runlog.Read(a.repo)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), runlog.Tail(entries, limit))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show, 0 for all")

	return cmd
}
