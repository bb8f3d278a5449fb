package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/reports/internal/buildinfo"
	"github.com/cleared-dev/reports/internal/config"
	"github.com/cleared-dev/reports/internal/observability"
	"github.com/cleared-dev/reports/internal/reporting"
)

// app carries state shared by subcommands.
type app struct {
	repo     string
	logLevel string

	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "cleared-reports",
		Short:   "Financial statements from a Cleared ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv(a.repo)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.repo, "repo", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides cleared.yaml")

	rootCmd.AddCommand(
		newInitCommand(a),
		newImportCommand(a),
		newReportCommand(a),
		newCashFlowCommand(a),
		newTreeCommand(a),
		newHistoryCommand(a),
		newServeCommand(a),
	)

	return rootCmd
}

// loadDotEnv loads <repo>/.env into the environment if present.
func loadDotEnv(repo string) error {
	err := godotenv.Load(filepath.Join(repo, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// setup loads the workspace config and builds the logger and metrics.
func (a *app) setup() error {
	root, err := filepath.Abs(a.repo)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.repo = root

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s is not a Cleared workspace (run init first): %w", root, err)
		}
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Log.Level)
	a.metrics = observability.NewMetrics()
	return nil
}

func (a *app) service() *reporting.Service {
	return reporting.NewService(a.repo, a.cfg, a.metrics, a.logger)
}
