package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/runlog"
)

func newCashFlowCommand(a *app) *cobra.Command {
	var entity, start, end, format string

	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Compute the statement of cash flows for a date range",
		Long: `Computes the statement of cash flows between --start and --end, both
inclusive. The range defaults to the current fiscal year to date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}

			endDate := today()
			if end != "" {
				d, err := model.ParseParamDate("--end", end)
				if err != nil {
					return err
				}
				endDate = d
			}
			startDate, err := a.cfg.FiscalYearStart(endDate)
			if err != nil {
				return err
			}
			if start != "" {
				if startDate, err = model.ParseParamDate("--start", start); err != nil {
					return err
				}
			}

			cf, err := a.service().CashFlow(cmd.Context(), entity, startDate, endDate)
			if err != nil {
				return err
			}

			if err := runlog.Append(a.repo, []runlog.Entry{{
				Timestamp: time.Now(),
				Command:   "cashflow",
				Entity:    entity,
				Subject:   cf.StartDate + ".." + cf.EndDate,
				Details:   fmt.Sprintf("net change %s", cf.NetChangeInCash.StringFixed(2)),
			}}); err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), cf)
			}
			renderCashFlow(cmd.OutOrStdout(), cf)
			return nil
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "only transactions for this entity")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default fiscal year start)")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or json")

	return cmd
}

func today() time.Time {
	return model.Day(time.Now())
}
