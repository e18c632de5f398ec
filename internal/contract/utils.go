package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/storecheck/schema"
	"github.com/mattn/go-isatty"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // excellentColor represents a passing audit.
	GoodColor      = color.New(color.FgCyan)              // goodColor represents minor gaps.
	FairColor      = color.New(color.FgYellow)            // fairColor represents standard caution, not bold.
	PoorColor      = color.New(color.FgRed, color.Bold)   // poorColor represents a failing audit.
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(percent float64) string {
	text := schema.GetPlainLabel(percent)

	switch text {
	case schema.ExcellentValue:
		return ExcellentColor.Sprint(text)
	case schema.GoodValue:
		return GoodColor.Sprint(text)
	case schema.FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// GetAnswerLabel returns a colored answer for console output.
func GetAnswerLabel(answer string) string {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes":
		return ExcellentColor.Sprint(answer)
	case "no":
		return PoorColor.Sprint(answer)
	case "na":
		return FairColor.Sprint(answer)
	default:
		return answer
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// homeFile returns a file under the user's home directory, or the bare name if unknown.
func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// GetDraftDBFilePath returns the path to the SQLite DB file for draft storage.
func GetDraftDBFilePath() string {
	return homeFile(".storecheck_draft.db")
}

// GetDraftJSONFilePath returns the path to the JSON document used by the file draft backend.
func GetDraftJSONFilePath() string {
	return homeFile(".storecheck_draft.json")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for submission history.
func GetHistoryDBFilePath() string {
	return homeFile(".storecheck_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseColorString parses a color setting. "auto" (or empty) enables colors only when
// stdout is a terminal.
func ParseColorString(s string) (bool, error) {
	if s == "" || strings.EqualFold(s, "auto") {
		return IsTerminal(os.Stdout), nil
	}
	return ParseBoolString(s)
}

// IsTerminal reports whether the file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
