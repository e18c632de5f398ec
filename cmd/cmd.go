// Package cmd defines the command-line interface for storecheck.
package cmd

import (
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the resolve subcommands to the parent resolve command
	resolveCmd.AddCommand(resolveTrainersCmd)
	resolveCmd.AddCommand(resolveAMsCmd)
	resolveCmd.AddCommand(resolveStoresCmd)
	resolveCmd.AddCommand(resolveHRCmd)
	resolveCmd.AddCommand(resolveSelectCmd)

	// Add the draft subcommands to the parent draft command
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftSetCmd)
	draftCmd.AddCommand(draftAnswerCmd)
	draftCmd.AddCommand(draftRemarkCmd)
	draftCmd.AddCommand(draftImageCmd)
	draftCmd.AddCommand(draftClearCmd)
	draftCmd.AddCommand(draftStatusCmd)

	// Add the catalog subcommands to the parent catalog command
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogColumnsCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("checklist", string(schema.TrainingChecklist), "Checklist: training or brew-league-am or hr")
	rootCmd.PersistentFlags().String("catalog-file", "", "Load the checklist catalog from a YAML or Markdown file")
	rootCmd.PersistentFlags().String("mapping", "", "Store mapping JSON as a file path or http(s) URL")
	rootCmd.PersistentFlags().StringSlice("endpoints", nil, "Comma-separated submission endpoint URLs")
	rootCmd.PersistentFlags().String("timezone", schema.DefaultTimezone, "Time zone for submission timestamps")
	rootCmd.PersistentFlags().String("variant", "", "Scoresheet variant (e.g. technical or sensory)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or markdown or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for scores (0-2)")
	rootCmd.PersistentFlags().String("color", "auto", "Colored labels: auto or yes/no/true/false/1/0")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultHistoryLimit, "Number of history rows to display")
	rootCmd.PersistentFlags().String("draft-backend", string(schema.SQLiteBackend), "Draft backend: sqlite or mysql or postgresql or file or none")
	rootCmd.PersistentFlags().String("draft-db-connect", "", "Draft connection string, or file path for sqlite/file")
	rootCmd.PersistentFlags().String("history-backend", "", "Submission history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "History connection string (must differ from draft-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of submitCmd to Viper
	submitCmd.Flags().Bool("dry-run", false, "Validate and encode without posting")
	submitCmd.Flags().Bool("strict", false, "Require every question to be answered")
	submitCmd.Flags().Bool("opaque", false, "Treat any completed round trip as success")
	submitCmd.Flags().String("submit-timeout", schema.DefaultSubmitTimeout.String(), "Per-request timeout")
	submitCmd.Flags().String("min-request-gap", schema.DefaultMinRequestGap.String(), "Minimum gap between request starts")
	if err := viper.BindPFlags(submitCmd.Flags()); err != nil {
		contract.LogFatal("Error binding submit flags", err)
	}

	// Bind all flags of resolveStoresCmd to Viper
	resolveStoresCmd.Flags().String("search", "", "Case-insensitive store name or id filter")
	if err := viper.BindPFlags(resolveStoresCmd.Flags()); err != nil {
		contract.LogFatal("Error binding resolve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
