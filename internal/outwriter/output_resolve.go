package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// PrintTrainers renders trainer candidates.
func PrintTrainers(trainers []schema.Trainer, cfg *contract.Config) error {
	header := []string{"trainer_id", "trainer_name"}
	rows := make([][]string, len(trainers))
	for i, t := range trainers {
		rows[i] = []string{t.ID, t.Name}
	}
	return printListing("trainers", trainers, header, rows, cfg)
}

// PrintAreaManagers renders area manager candidates, busiest first.
func PrintAreaManagers(ams []schema.AreaManager, cfg *contract.Config) error {
	header := []string{"am_id", "am_name", "stores", "regions"}
	rows := make([][]string, len(ams))
	for i, am := range ams {
		rows[i] = []string{am.ID, am.Name, strconv.Itoa(am.StoreCount), strings.Join(am.Regions, ", ")}
	}
	return printListing("area managers", ams, header, rows, cfg)
}

// PrintStores renders store candidates.
func PrintStores(stores []schema.StoreRecord, cfg *contract.Config) error {
	header := []string{"store_id", "store_name", "region", "am_id", "trainer_ids"}
	maxName := GetMaxTableTextWidth(cfg, 60)
	rows := make([][]string, len(stores))
	for i, s := range stores {
		name := s.StoreName
		if cfg.Output == schema.TextOut || cfg.Output == "" {
			name = contract.TruncateText(name, maxName)
		}
		rows[i] = []string{s.StoreID, name, s.Region, s.AMID, joinNonEmpty(s.TrainerIDs[:])}
	}
	return printListing("stores", stores, header, rows, cfg)
}

// printListing writes flat rows as a table, CSV, Markdown or the raw data as JSON.
func printListing(what string, data any, header []string, rows [][]string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, data)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return cw.WriteAll(rows)
			})
		}, "Wrote CSV")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMarkdownTable(w, header, rows)
		}, "Wrote Markdown")
	case schema.ParquetOut:
		return unsupportedOutput(what, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if len(rows) == 0 {
				_, err := fmt.Fprintf(w, "No %s found.\n", what)
				return err
			}
			return writeTable(w, header, rows)
		}, "Wrote table")
	}
}

// writeMarkdownTable writes a GitHub-flavored Markdown table.
func writeMarkdownTable(w io.Writer, header []string, rows [][]string) error {
	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinNonEmpty(values []string) string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ", ")
}
