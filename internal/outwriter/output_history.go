package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/storecheck/core/algo"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// PrintHistory ranks submissions by percent and renders the top cfg.Limit of them.
func PrintHistory(records []schema.SubmissionRecord, cfg *contract.Config) error {
	ranked := schema.EnrichSubmissions(algo.RankSubmissions(records, cfg.Limit))
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ranked)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, ranked, cfg)
		}, "Wrote CSV")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMarkdownTable(w, historyHeader, historyRows(ranked, cfg, false))
		}, "Wrote Markdown")
	case schema.ParquetOut:
		return fmt.Errorf("--output parquet is only supported by 'history export'")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if len(ranked) == 0 {
				_, err := fmt.Fprintln(w, "No submissions recorded.")
				return err
			}
			return writeTable(w, historyHeader, historyRows(ranked, cfg, true))
		}, "Wrote table")
	}
}

var historyHeader = []string{"Rank", "ID", "Checklist", "Store", "Score", "%", "Label", "Status", "Submitted"}

func historyRows(ranked []schema.RankedSubmission, cfg *contract.Config, styled bool) [][]string {
	format := createFormatters(cfg.Precision)
	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		lbl := r.Label
		if styled {
			lbl = label(float64(r.Percent), cfg)
		}
		rows[i] = []string{
			strconv.Itoa(r.Rank),
			shortID(r.ID),
			string(r.ChecklistType),
			r.StoreID,
			format(r.Total) + "/" + format(r.Max),
			strconv.Itoa(r.Percent),
			lbl,
			string(r.Status),
			r.SubmittedAt.In(location(cfg)).Format(schema.TimestampLayout),
		}
	}
	return rows
}

func writeHistoryCSV(w io.Writer, ranked []schema.RankedSubmission, cfg *contract.Config) error {
	format := createFormatters(cfg.Precision)
	header := []string{
		"rank", "id", "checklist_type", "store_id", "trainer_id", "am_id", "total", "max",
		"percent", "label", "status", "endpoints", "field_count", "error", "submitted_at",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range ranked {
			if err := cw.Write([]string{
				strconv.Itoa(r.Rank),
				r.ID,
				string(r.ChecklistType),
				r.StoreID,
				r.TrainerID,
				r.AMID,
				format(r.Total),
				format(r.Max),
				strconv.Itoa(r.Percent),
				r.Label,
				string(r.Status),
				strconv.Itoa(r.Endpoints),
				strconv.Itoa(r.FieldCount),
				r.Error,
				r.SubmittedAt.In(location(cfg)).Format(contract.DateTimeFormat),
			}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// PrintPayload renders the ordered fields of one payload.
func PrintPayload(entries []schema.PayloadEntry, cfg *contract.Config) error {
	header := []string{"position", "key", "value"}
	maxValue := GetMaxTableTextWidth(cfg, 40)
	rows := make([][]string, len(entries))
	for i, e := range entries {
		value := e.Value
		if cfg.Output == schema.TextOut || cfg.Output == "" {
			value = contract.TruncateText(value, maxValue)
			if cfg.UseColors {
				value = contract.GetAnswerLabel(value)
			}
		}
		rows[i] = []string{strconv.Itoa(i), e.Key, value}
	}
	return printListing("payload fields", entries, header, rows, cfg)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func location(cfg *contract.Config) *time.Location {
	if cfg.Location == nil {
		return time.Local
	}
	return cfg.Location
}
