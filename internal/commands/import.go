package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/reports/internal/accounts"
	"github.com/cleared-dev/reports/internal/config"
	"github.com/cleared-dev/reports/internal/gitops"
	"github.com/cleared-dev/reports/internal/importer"
	"github.com/cleared-dev/reports/internal/journal"
	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/runlog"
)

func newImportCommand(a *app) *cobra.Command {
	var format string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Post bank CSV exports from import/ to the journal",
		Long: `Parses every CSV in import/ with the parser of its bank account and posts
the rows to the journal. A file belongs to the bank account whose format
matches the file name prefix (chase_jan.csv is "chase") unless --format is
given. Imported files are moved to import/processed/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.runImport(cmd.Context(), cmd.OutOrStdout(), format, dryRun)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "bank format for all files, e.g. chase")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without posting")

	return cmd
}

func (a *app) runImport(ctx context.Context, w io.Writer, format string, dryRun bool) error {
	files, err := importer.Scan(a.repo)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(w, "Nothing to import.")
		return nil
	}

	chart, err := accounts.Load(a.repo)
	if err != nil {
		return err
	}
	jrnl := journal.NewService(a.repo, chart)
	registry := importer.DefaultRegistry()

	var entries []runlog.Entry
	total := 0
	for _, f := range files {
		fileFormat := format
		if fileFormat == "" {
			fileFormat = formatFromName(f.Name)
		}
		bank, ok := a.cfg.BankAccountFor(fileFormat)
		if !ok {
			a.logger.Warn("no bank account configured for file",
				zap.String("file", f.Name),
				zap.String("format", fileFormat),
			)
			fmt.Fprintf(w, "%s: skipped, no bank account with format %q\n", f.Name, fileFormat)
			continue
		}
		parser := registry.Get(bank.Format)
		if parser == nil {
			return fmt.Errorf("%s: unknown format %q (available: %s)", f.Name, bank.Format, strings.Join(registry.Formats(), ", "))
		}

		rows, err := parseFile(parser, f.Path)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		postings, unmatched := importer.ToPostings(rows, mappingFor(bank, a.cfg.Business.Currency))
		for _, u := range unmatched {
			a.logger.Info("no category rule matched",
				zap.String("file", f.Name),
				zap.String("description", u.Description),
				zap.String("amount", u.Amount.StringFixed(2)),
			)
		}

		if dryRun {
			fmt.Fprintf(w, "%s: %d rows, %d postings, %d uncategorized (dry run)\n", f.Name, len(rows), len(postings), len(unmatched))
			continue
		}

		if _, err := jrnl.AddBatch(postings); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		if err := importer.MarkProcessed(a.repo, f.Name); err != nil {
			return err
		}
		a.metrics.AddImported(parser.Format(), len(postings))
		total += len(postings)

		fmt.Fprintf(w, "%s: %d rows, %d postings, %d uncategorized\n", f.Name, len(rows), len(postings), len(unmatched))
		entries = append(entries, runlog.Entry{
			Timestamp: time.Now(),
			Command:   "import",
			Entity:    bank.EntityID,
			Subject:   f.Name,
			Count:     len(postings),
			Details:   fmt.Sprintf("%s, %d uncategorized", bank.Name, len(unmatched)),
		})
	}

	if err := runlog.Append(a.repo, entries); err != nil {
		return err
	}
	if total > 0 && a.cfg.Git.AutoCommit && gitops.IsRepo(a.repo) {
		hash, err := gitops.Commit(ctx, a.repo, fmt.Sprintf("import: %d postings", total), a.cfg.Git.Author())
		if err != nil {
			return err
		}
		if hash == "" {
			return nil
		}
		fmt.Fprintf(w, "Committed %s\n", hash)
		// Recorded after the commit; this row goes out with the next one.
		return runlog.Append(a.repo, []runlog.Entry{{
			Timestamp:  time.Now(),
			Command:    "commit",
			Subject:    "import",
			Count:      total,
			CommitHash: hash,
		}})
	}
	return nil
}

func parseFile(p importer.Parser, path string) ([]model.BankTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f)
}

// formatFromName takes the file name up to the first '_', '-' or '.'.
func formatFromName(name string) string {
	if i := strings.IndexAny(name, "_-."); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

func mappingFor(bank config.BankAccount, currency string) importer.Mapping {
	m := importer.Mapping{
		AccountID: bank.AccountID,
		EntityID:  bank.EntityID,
		Currency:  currency,
	}
	for _, r := range bank.Rules {
		m.Rules = append(m.Rules, importer.Rule{Match: r.Match, AccountID: r.AccountID})
	}
	return m
}
