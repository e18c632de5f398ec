package cmd

import (
	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/catalog"
	"github.com/huangsam/storecheck/schema"
	"github.com/spf13/cobra"
)

// catalogCmd groups the checklist catalog commands.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the checklist catalogs",
	Long: `Inspect the built-in checklist catalogs or one loaded with --catalog-file.

Subcommands:
  list    - Summarize every built-in catalog
  show    - Print the sections and questions of the selected catalog
  columns - Print the exact ordered payload columns, for generating sheet headers`,
}

var catalogListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Summarize every built-in catalog",
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cats, err := catalog.List()
		if err != nil {
			return err
		}
		summaries := make([]schema.CatalogSummary, 0, len(cats))
		for _, cat := range cats {
			summaries = append(summaries, catalog.Summarize(cat))
		}
		return writer.WriteCatalogs(summaries, cfg)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the sections and questions of the selected catalog",
	Long: `Print every section and question of the selected catalog together with the
response key used by 'storecheck draft answer' and the points each question carries.

Examples:
  storecheck catalog show --checklist hr
  storecheck catalog show --catalog-file ./audit.md --output json`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return writer.WriteCatalog(cat, cfg)
	},
}

var catalogColumnsCmd = &cobra.Command{
	Use:     "columns",
	Short:   "Print the ordered payload columns of the selected catalog",
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return writer.WriteColumns(core.Columns(cat), cfg)
	},
}
