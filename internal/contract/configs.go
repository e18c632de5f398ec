package contract

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for --timezone

	"github.com/huangsam/storecheck/schema"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultHistoryLimit = 25
	MaxHistoryLimit     = 1000
	DefaultPrecision    = schema.DefaultPrecision
	DefaultLogLevel     = "warn"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Checklist   schema.ChecklistType
	CatalogFile string
	Mapping     string // file path or http(s) URL of the store mapping JSON
	Endpoints   []string
	Timezone    string
	Location    *time.Location
	Variant     string
	Strict      bool // require every question to be answered before submit

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	Limit      int
	UseColors  bool

	DraftBackend   schema.DatabaseBackend
	DraftDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	SubmitTimeout time.Duration
	MinRequestGap time.Duration
	Opaque        bool // treat any completed round trip as success

	LogLevel zapcore.Level
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Checklist        string   `mapstructure:"checklist"`
	CatalogFile      string   `mapstructure:"catalog-file"`
	Mapping          string   `mapstructure:"mapping"`
	Endpoints        []string `mapstructure:"endpoints"`
	Timezone         string   `mapstructure:"timezone"`
	Variant          string   `mapstructure:"variant"`
	Output           string   `mapstructure:"output"`
	OutputFile       string   `mapstructure:"output-file"`
	Precision        int      `mapstructure:"precision"`
	Color            string   `mapstructure:"color"`
	Width            int      `mapstructure:"width"`
	Limit            int      `mapstructure:"limit"`
	DraftBackend     string   `mapstructure:"draft-backend"`
	DraftDBConnect   string   `mapstructure:"draft-db-connect"`
	HistoryBackend   string   `mapstructure:"history-backend"`
	HistoryDBConnect string   `mapstructure:"history-db-connect"`
	LogLevel         string   `mapstructure:"log-level"`

	// --- Fields from submitCmd.Flags() ---
	SubmitTimeout string `mapstructure:"submit-timeout"`
	MinRequestGap string `mapstructure:"min-request-gap"`
	Opaque        bool   `mapstructure:"opaque"`
	Strict        bool   `mapstructure:"strict"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Endpoints != nil {
		clone.Endpoints = slices.Clone(c.Endpoints)
	}
	return &clone
}

// Now returns the current time in the configured time zone.
func (c *Config) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processChecklist(cfg, input); err != nil {
		return err
	}
	if err := processSubmission(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.FileBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a db-connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a db-connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates draft and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Draft Backend Validation ---
	cfg.DraftBackend = schema.DatabaseBackend(strings.ToLower(input.DraftBackend))
	if cfg.DraftBackend == "" {
		cfg.DraftBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDraftBackends[cfg.DraftBackend]; !ok {
		return fmt.Errorf("invalid --draft-backend '%s'. must be sqlite, mysql, postgresql, file, none", input.DraftBackend)
	}
	cfg.DraftDBConnect = input.DraftDBConnect
	if err := ValidateDatabaseConnectionString(cfg.DraftBackend, cfg.DraftDBConnect); err != nil {
		return fmt.Errorf("--draft-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid --history-backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("--history-db-connect: %w", err)
	}

	// Validate that drafts and history use different SQLite files
	if cfg.DraftBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		draftPath := cfg.DraftDBConnect
		if draftPath == "" {
			draftPath = GetDraftDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if draftPath == historyPath {
			return fmt.Errorf("draft and history storage must use different SQLite database files. Both resolve to %q", draftPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseColorString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > 2 {
		return fmt.Errorf("--precision must be 0, 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid --output format '%s'. must be text, csv, json, markdown, parquet", input.Output)
	}

	cfg.Limit = input.Limit
	if cfg.Limit == 0 {
		cfg.Limit = DefaultHistoryLimit
	}
	if cfg.Limit < 0 || cfg.Limit > MaxHistoryLimit {
		return fmt.Errorf("--limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.Limit)
	}

	level := input.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level '%s': %w", input.LogLevel, err)
	}
	cfg.LogLevel = lvl

	return nil
}

// processChecklist validates the checklist selection, catalog source and time zone.
func processChecklist(cfg *Config, input *ConfigRawInput) error {
	cfg.CatalogFile = strings.TrimSpace(input.CatalogFile)
	cfg.Checklist = schema.ChecklistType(strings.ToLower(strings.TrimSpace(input.Checklist)))
	if cfg.Checklist == "" {
		cfg.Checklist = schema.TrainingChecklist
	}
	if cfg.CatalogFile == "" {
		if _, ok := schema.ValidChecklistTypes[cfg.Checklist]; !ok {
			return fmt.Errorf("invalid --checklist '%s'. must be training, brew-league-am, hr (or pass --catalog-file)", input.Checklist)
		}
	}
	cfg.Variant = strings.ToLower(strings.TrimSpace(input.Variant))
	cfg.Mapping = strings.TrimSpace(input.Mapping)

	cfg.Timezone = input.Timezone
	if cfg.Timezone == "" {
		cfg.Timezone = schema.DefaultTimezone
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid --timezone '%s': %w", input.Timezone, err)
	}
	cfg.Location = loc
	return nil
}

// processSubmission validates endpoints and the request pacing settings.
func processSubmission(cfg *Config, input *ConfigRawInput) error {
	cfg.Endpoints = nil
	for _, raw := range input.Endpoints {
		for part := range strings.SplitSeq(raw, ",") {
			endpoint := strings.TrimSpace(part)
			if endpoint == "" {
				continue
			}
			u, err := url.Parse(endpoint)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("invalid --endpoints entry '%s'. must be an http(s) URL", endpoint)
			}
			cfg.Endpoints = append(cfg.Endpoints, endpoint)
		}
	}

	timeout, err := parseDurationOr(input.SubmitTimeout, schema.DefaultSubmitTimeout)
	if err != nil || timeout <= 0 {
		return fmt.Errorf("invalid --submit-timeout '%s'. must be a positive duration like 30s", input.SubmitTimeout)
	}
	cfg.SubmitTimeout = timeout

	gap, err := parseDurationOr(input.MinRequestGap, schema.DefaultMinRequestGap)
	if err != nil || gap < 0 {
		return fmt.Errorf("invalid --min-request-gap '%s'. must be a duration like 2s", input.MinRequestGap)
	}
	cfg.MinRequestGap = gap

	cfg.Opaque = input.Opaque
	cfg.Strict = input.Strict
	return nil
}

// parseDurationOr parses a duration string, falling back to def when empty.
func parseDurationOr(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
