package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/storecheck/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintDraftStatus prints draft store status information.
func PrintDraftStatus(w io.Writer, status schema.DraftStatus) {
	_, _ = fmt.Fprintf(w, "Draft Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Submissions: %d\n", status.TotalSubmissions)
	if status.TotalSubmissions > 0 {
		_, _ = fmt.Fprintf(w, "Failed Submissions: %d\n", status.FailedSubmissions)
		_, _ = fmt.Fprintf(w, "Last Submission ID: %s\n", status.LastSubmissionID)
		_, _ = fmt.Fprintf(w, "Last Submission: %s\n", status.LastSubmissionTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Submission: %s\n", status.OldestSubmissionTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
