package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errHistoryDisabled is returned by history commands when no history backend is configured.
var errHistoryDisabled = errors.New("history is disabled: set --history-backend")

// historySetup validates config and opens only the history store.
func historySetup() error {
	if err := processConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores("", "", cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup validates config without opening the store, so migrations can
// run against a fresh database.
func historyMigrateSetup() error {
	if err := processConfig(); err != nil {
		return err
	}
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect == "" {
		cfg.HistoryDBConnect = contract.GetHistoryDBFilePath()
	}
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for the migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// requireHistory fails fast when history tracking is off.
func requireHistory() error {
	if cfg.HistoryBackend == schema.NoneBackend {
		return errHistoryDisabled
	}
	return nil
}

// historyCmd focused on submission history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage submission history tracking and exports",
	Long: `Manage the history of submission attempts.

When enabled, storecheck records every submit attempt, storing:
- The outcome (submitted, failed or dry-run) and any error
- The checklist, store, trainer and area manager
- The score and the exact ordered payload that was sent

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show history tracking statistics
  list    - Rank submissions by score
  show    - Print the payload of one submission
  export  - Export data to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  storecheck history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  storecheck history export --history-backend sqlite --output-file audits`,
}

var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display history statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get history status: %w", err)
		}
		iocache.PrintHistoryStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Rank recorded submissions by score",
	Long: `Rank recorded submission attempts by percent, most recent first on ties,
and show the top --limit of them.

Examples:
  storecheck history list --history-backend sqlite --limit 5
  storecheck history list --history-backend sqlite --output csv --output-file attempts.csv`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireHistory(); err != nil {
			return err
		}
		records, err := iocache.Manager.GetHistoryStore().GetAllSubmissions()
		if err != nil {
			return err
		}
		return writer.WriteHistory(records, cfg)
	},
}

var historyShowCmd = &cobra.Command{
	Use:     "show <submission-id>",
	Short:   "Print the ordered payload of one submission",
	Args:    cobra.ExactArgs(1),
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		if err := requireHistory(); err != nil {
			return err
		}
		entries, err := iocache.Manager.GetHistoryStore().GetSubmissionFields(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("submission %s not found", args[0])
		}
		return writer.WritePayload(entries, cfg)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export submission history to Parquet for BI tools and analytics",
	Long: `Export all stored submissions to Parquet format for use with analytics tools.

Exports two datasets next to --output-file:
- <file>.submissions.parquet - one row per submission attempt
- <file>.submission_fields.parquet - the ordered payload fields of each attempt

Examples:
  storecheck history export --history-backend sqlite --output-file audits
  duckdb -c "SELECT store_id, avg(percent) FROM read_parquet('audits.submissions.parquet') GROUP BY 1"`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireHistory(); err != nil {
			return err
		}
		return iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), cfg.OutputFile, cmd.OutOrStdout())
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all submission history",
	Long: `Delete every recorded submission and its payload fields.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  storecheck history export --history-backend sqlite --output-file backup
  storecheck history clear --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireHistory(); err != nil {
			return err
		}
		path := contract.GetHistoryDBFilePath()
		if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
			path = cfg.HistoryDBConnect
		}
		if err := iocache.ClearHistory(cfg.HistoryBackend, path, cfg.HistoryDBConnect); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		cmd.Println("Submission history cleared successfully.")
		return nil
	},
}

var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the submission history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  storecheck history migrate --history-backend postgresql --history-db-connect "host=db dbname=audits"

  # Rollback to initial state
  storecheck history migrate --history-backend sqlite --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: historyMigrateSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireHistory(); err != nil {
			return err
		}
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		cmd.Println("History migrations applied.")
		return nil
	},
}
