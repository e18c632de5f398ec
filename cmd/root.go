package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/catalog"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/internal/outwriter"
	"github.com/huangsam/storecheck/internal/refdata"
	"github.com/huangsam/storecheck/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is the process logger, replaced once the log level is known.
var logger = zap.NewNop()

// writer renders every report.
var writer = outwriter.NewOutWriter()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "storecheck",
	Short:              "Score, resolve and submit store audit checklists.",
	Long:               `Storecheck keeps a local draft of a store audit, scores it, and posts it in the exact column order the audit sheets expect.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("STORECHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("checklist", schema.TrainingChecklist)
	viper.SetDefault("timezone", schema.DefaultTimezone)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("limit", contract.DefaultHistoryLimit)
	viper.SetDefault("draft-backend", schema.SQLiteBackend)
	viper.SetDefault("draft-db-connect", "")
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "auto")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("submit-timeout", schema.DefaultSubmitTimeout.String())
	viper.SetDefault("min-request-gap", schema.DefaultMinRequestGap.String())
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".storecheck") // Name of config file (without extension)
		viper.SetConfigType("yaml")        // We'll use YAML format
		viper.AddConfigPath(".")           // Look in the current directory
		viper.AddConfigPath("$HOME")       // Look in the home directory
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// processConfig merges every config source into cfg and sets up logging and colors.
func processConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	l, err := contract.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the draft and history stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := processConfig(); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.DraftBackend, cfg.DraftDBConnect, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper validates config without opening any store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return processConfig()
}

// loadCatalog returns the catalog selected by --checklist or --catalog-file.
func loadCatalog() (*schema.Catalog, error) {
	return catalog.Resolve(cfg.Checklist, cfg.CatalogFile)
}

// loadMapping loads the store mapping and returns the source and a resolver over it.
func loadMapping(ctx context.Context) (*refdata.Source, *core.Resolver, error) {
	source := refdata.NewSource(cfg.Mapping, logger)
	records, err := source.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return source, core.NewResolver(records, logger), nil
}

// loadSession opens the draft of the configured checklist.
func loadSession() (*schema.Catalog, *iocache.Session, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, err
	}
	s, err := iocache.LoadSession(iocache.Manager.GetDraftStore(), cat)
	if err != nil {
		return nil, nil, err
	}
	return cat, s, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
