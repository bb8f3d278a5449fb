package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/runlog"
)

func newReportCommand(a *app) *cobra.Command {
	var entity, format string
	var all bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate monthly financial statements from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}
			svc := a.service()
			w := cmd.OutOrStdout()

			var reports map[string]model.ReportData
			if all {
				var err error
				if reports, err = svc.GenerateAll(cmd.Context()); err != nil {
					return err
				}
			} else {
				report, err := svc.Generate(cmd.Context(), entity)
				if err != nil {
					return err
				}
				reports = map[string]model.ReportData{entity: report}
			}

			if err := runlog.Append(a.repo, reportEntries(reports)); err != nil {
				return err
			}

			switch {
			case format == formatJSON && all:
				return writeJSON(w, reports)
			case format == formatJSON:
				return writeJSON(w, reports[entity])
			default:
				renderReports(w, reports)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "only transactions for this entity")
	cmd.Flags().BoolVar(&all, "all", false, "one report per entity")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or json")
	cmd.MarkFlagsMutuallyExclusive("entity", "all")

	return cmd
}

func reportEntries(reports map[string]model.ReportData) []runlog.Entry {
	entries := make([]runlog.Entry, 0, len(reports))
	for entity, r := range reports {
		entries = append(entries, runlog.Entry{
			Timestamp: r.GeneratedAt,
			Command:   "report",
			Entity:    entity,
			Subject:   r.ReportID,
			Count:     len(r.Periods),
			Details:   r.CompanyName,
		})
	}
	return entries
}
