package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// PrintCatalogs renders the available catalogs.
func PrintCatalogs(catalogs []schema.CatalogSummary, cfg *contract.Config) error {
	header := []string{"type", "title", "version", "variants", "sections", "items", "columns"}
	rows := make([][]string, len(catalogs))
	for i, c := range catalogs {
		rows[i] = []string{
			string(c.Type), c.Title, c.Version, joinNonEmpty(c.Variants),
			strconv.Itoa(c.Sections), strconv.Itoa(c.Items), strconv.Itoa(c.Columns),
		}
	}
	return printListing("catalogs", catalogs, header, rows, cfg)
}

// PrintCatalog renders every item of a catalog grouped by section.
func PrintCatalog(cat *schema.Catalog, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, cat)
		}, "Wrote JSON")
	}
	header := []string{"section", "key", "kind", "weight", "question"}
	maxQuestion := GetMaxTableTextWidth(cfg, 45)
	var rows [][]string
	for _, sec := range cat.Sections {
		for _, item := range sec.Items {
			question := item.Question
			if cfg.Output == schema.TextOut || cfg.Output == "" {
				question = contract.TruncateText(question, maxQuestion)
			}
			rows = append(rows, []string{
				sec.ID,
				cat.ResponseKey(sec.ID, item.ID),
				string(item.EffectiveKind()),
				itemWeight(item),
				question,
			})
		}
	}
	if cfg.Output == schema.TextOut || cfg.Output == "" {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, _ = fmt.Fprintf(w, "\n📋 %s v%s (%d sections, %d items)\n", cat.Title, cat.Version, len(cat.Sections), cat.ItemCount())
			return writeTable(w, header, rows)
		}, "Wrote table")
	}
	return printListing("catalog items", cat, header, rows, cfg)
}

// itemWeight describes the points an item can earn.
func itemWeight(item schema.ChecklistItem) string {
	switch item.EffectiveKind() {
	case schema.TextItem, schema.TimeItem:
		return "-"
	case schema.ChoiceItem:
		return strconv.FormatFloat(item.MaxChoiceScore(), 'f', -1, 64)
	}
	w := strconv.FormatFloat(item.Weight, 'f', -1, 64)
	if item.NegativeWeight != nil {
		w += " / " + strconv.FormatFloat(*item.NegativeWeight, 'f', -1, 64)
	}
	return w
}

// PrintColumns writes the ordered payload columns of a catalog, one per line.
func PrintColumns(columns []string, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, columns)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		for _, c := range columns {
			if _, err := fmt.Fprintln(w, c); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote columns")
}
