package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// PrintScoreReport renders a scored checklist in the configured format.
func PrintScoreReport(report schema.ScoreReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreCSV(w, report, cfg)
		}, "Wrote CSV")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreMarkdown(w, report, cfg)
		}, "Wrote Markdown")
	case schema.ParquetOut:
		return unsupportedOutput("score", cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(w, report, cfg)
		}, "Wrote table")
	}
}

// writeScoreTable prints the per-section breakdown followed by the total and progress.
func writeScoreTable(w io.Writer, report schema.ScoreReport, cfg *contract.Config) error {
	format := createFormatters(cfg.Precision)
	_, _ = fmt.Fprintf(w, "\n📋 %s%s\n", report.Title, variantSuffix(report.Variant))
	if report.StoreID != "" {
		_, _ = fmt.Fprintf(w, "🏬 %s %s\n", report.StoreID, report.StoreName)
	}

	maxTitle := GetMaxTableTextWidth(cfg, 50)
	rows := make([][]string, 0, len(report.Sections))
	for _, s := range report.Sections {
		title := contract.TruncateText(s.Title, maxTitle)
		if s.Bucketed {
			title += " *"
		}
		rows = append(rows, []string{
			title,
			fmt.Sprintf("%d/%d", s.Answered, s.Items),
			format(s.Earned),
			format(s.Max),
			strconv.Itoa(s.Percent),
			label(float64(s.Percent), cfg),
		})
	}
	if err := writeTable(w, []string{"Section", "Answered", "Earned", "Max", "%", "Label"}, rows); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Total: %s / %s (%d%%) %s\n",
		format(report.Total), format(report.Max), report.Percent, label(float64(report.Percent), cfg))
	_, _ = fmt.Fprintf(w, "Progress: %d/%d (%d%%)\n",
		report.Progress.Completed, report.Progress.Total, report.Progress.Percent)
	return nil
}

// writeScoreCSV writes one row per section and a trailing total row.
func writeScoreCSV(w io.Writer, report schema.ScoreReport, cfg *contract.Config) error {
	format := createFormatters(cfg.Precision)
	header := []string{"checklist", "section_id", "section", "answered", "items", "earned", "max", "percent", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range report.Sections {
			if err := cw.Write([]string{
				string(report.Checklist),
				s.ID,
				s.Title,
				strconv.Itoa(s.Answered),
				strconv.Itoa(s.Items),
				format(s.Earned),
				format(s.Max),
				strconv.Itoa(s.Percent),
				schema.GetPlainLabel(float64(s.Percent)),
			}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return cw.Write([]string{
			string(report.Checklist),
			"total",
			"Total",
			strconv.Itoa(report.Progress.Completed),
			strconv.Itoa(report.Progress.Total),
			format(report.Total),
			format(report.Max),
			strconv.Itoa(report.Percent),
			report.Label,
		})
	})
}

// writeScoreMarkdown writes the report as Markdown, styled with glamour on a terminal.
func writeScoreMarkdown(w io.Writer, report schema.ScoreReport, cfg *contract.Config) error {
	doc := scoreMarkdown(report, cfg)
	if cfg.OutputFile != "" || w != os.Stdout || !contract.IsTerminal(os.Stdout) {
		_, err := io.WriteString(w, doc)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth(cfg)),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// scoreMarkdown builds the Markdown document of a score report.
func scoreMarkdown(report schema.ScoreReport, cfg *contract.Config) string {
	format := createFormatters(cfg.Precision)
	var b strings.Builder
	fmt.Fprintf(&b, "# %s%s\n\n", report.Title, variantSuffix(report.Variant))
	if report.StoreID != "" {
		fmt.Fprintf(&b, "**Store:** %s %s\n\n", report.StoreID, report.StoreName)
	}
	b.WriteString("| Section | Answered | Earned | Max | % | Label |\n")
	b.WriteString("|---|---:|---:|---:|---:|---|\n")
	for _, s := range report.Sections {
		fmt.Fprintf(&b, "| %s | %d/%d | %s | %s | %d | %s |\n",
			escapeCell(s.Title), s.Answered, s.Items, format(s.Earned), format(s.Max), s.Percent,
			schema.GetPlainLabel(float64(s.Percent)))
	}
	fmt.Fprintf(&b, "\n**Total:** %s / %s (%d%%) %s\n\n", format(report.Total), format(report.Max), report.Percent, report.Label)
	fmt.Fprintf(&b, "**Progress:** %d/%d (%d%%)\n", report.Progress.Completed, report.Progress.Total, report.Progress.Percent)
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func variantSuffix(variant string) string {
	if variant == "" {
		return ""
	}
	return " (" + variant + ")"
}

// label returns the audit label, colored when colors are enabled.
func label(percent float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(percent)
	}
	return schema.GetPlainLabel(percent)
}
