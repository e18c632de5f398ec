package schema

// RankedSubmission adds presentation data to a SubmissionRecord.
type RankedSubmission struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	SubmissionRecord
}

// Audit label constants.
const (
	ExcellentValue = "Excellent"
	GoodValue      = "Good"
	FairValue      = "Fair"
	PoorValue      = "Poor"
)

// GetPlainLabel returns a plain text label for an audit percentage. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 80:
		return ExcellentValue
	case percent >= 60:
		return GoodValue
	case percent >= 40:
		return FairValue
	default:
		return PoorValue
	}
}

// EnrichSubmissions adds rank and label to a list of submission records.
func EnrichSubmissions(records []SubmissionRecord) []RankedSubmission {
	output := make([]RankedSubmission, len(records))
	for i, r := range records {
		output[i] = RankedSubmission{
			Rank:             i + 1,
			Label:            GetPlainLabel(float64(r.Percent)),
			SubmissionRecord: r,
		}
	}
	return output
}

// ScoreReport is the rendered view of one scored checklist.
type ScoreReport struct {
	Checklist ChecklistType `json:"checklist"`
	Title     string        `json:"title"`
	Variant   string        `json:"variant,omitempty"`
	StoreID   string        `json:"store_id,omitempty"`
	StoreName string        `json:"store_name,omitempty"`
	Label     string        `json:"label"`
	Progress  Progress      `json:"progress"`
	ScoreResult
}

// CatalogSummary describes one available checklist catalog.
type CatalogSummary struct {
	Type     ChecklistType `json:"type"`
	Title    string        `json:"title"`
	Version  string        `json:"version"`
	Variants []string      `json:"variants,omitempty"`
	Sections int           `json:"sections"`
	Items    int           `json:"items"`
	Columns  int           `json:"columns"`
}
