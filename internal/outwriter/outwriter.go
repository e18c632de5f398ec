// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScore prints a score report using the configured output format.
func (ow *OutWriter) WriteScore(report schema.ScoreReport, cfg *contract.Config) error {
	return PrintScoreReport(report, cfg)
}

// WriteTrainers prints trainer candidates.
func (ow *OutWriter) WriteTrainers(trainers []schema.Trainer, cfg *contract.Config) error {
	return PrintTrainers(trainers, cfg)
}

// WriteAreaManagers prints area manager candidates.
func (ow *OutWriter) WriteAreaManagers(ams []schema.AreaManager, cfg *contract.Config) error {
	return PrintAreaManagers(ams, cfg)
}

// WriteStores prints store candidates.
func (ow *OutWriter) WriteStores(stores []schema.StoreRecord, cfg *contract.Config) error {
	return PrintStores(stores, cfg)
}

// WriteHistory prints ranked submission history.
func (ow *OutWriter) WriteHistory(records []schema.SubmissionRecord, cfg *contract.Config) error {
	return PrintHistory(records, cfg)
}

// WritePayload prints the ordered fields of one payload.
func (ow *OutWriter) WritePayload(entries []schema.PayloadEntry, cfg *contract.Config) error {
	return PrintPayload(entries, cfg)
}

// WriteCatalogs prints the available catalogs.
func (ow *OutWriter) WriteCatalogs(catalogs []schema.CatalogSummary, cfg *contract.Config) error {
	return PrintCatalogs(catalogs, cfg)
}

// WriteCatalog prints the sections and items of one catalog.
func (ow *OutWriter) WriteCatalog(cat *schema.Catalog, cfg *contract.Config) error {
	return PrintCatalog(cat, cfg)
}

// WriteColumns prints the ordered payload columns of a catalog.
func (ow *OutWriter) WriteColumns(columns []string, cfg *contract.Config) error {
	return PrintColumns(columns, cfg)
}

// GetTerminalWidth returns the configured width override, the detected terminal width,
// or 80 when neither is available.
func GetTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTableTextWidth returns the room left for a free-text column once fixedWidth
// characters of other columns and borders are reserved.
func GetMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	available := GetTerminalWidth(cfg) - fixedWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
