package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/reporting"
)

func newTreeCommand(a *app) *cobra.Command {
	var types []string
	var entity, from, to, format string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the account hierarchy with rolled-up totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}

			q := reporting.TreeQuery{Entity: entity}
			for _, t := range types {
				q.Types = append(q.Types, model.AccountType(t))
			}
			var err error
			if from != "" {
				if q.From, err = model.ParseParamDate("--from", from); err != nil {
					return err
				}
			}
			if to != "" {
				if q.To, err = model.ParseParamDate("--to", to); err != nil {
					return err
				}
			}

			forest, err := a.service().Tree(cmd.Context(), q)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), forest)
			}
			renderTree(cmd.OutOrStdout(), forest)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "account types to include (default all)")
	cmd.Flags().StringVar(&entity, "entity", "", "only transactions for this entity")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or json")

	return cmd
}
