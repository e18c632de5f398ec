package schema

// SectionScore is the earned and possible points of one section.
type SectionScore struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Earned   float64 `json:"earned"`
	Max      float64 `json:"max"`
	Percent  int     `json:"percent"`
	Bucketed bool    `json:"bucketed,omitempty"`
	Answered int     `json:"answered"`
	Items    int     `json:"items"`
}

// ScoreResult is the outcome of scoring one checklist.
type ScoreResult struct {
	Sections     []SectionScore     `json:"sections"`
	Total        float64            `json:"total"`
	Max          float64            `json:"max"`
	Percent      int                `json:"percent"`
	BucketScores map[string]float64 `json:"bucket_scores,omitempty"`
}

// Section returns the score of a section by id.
func (r ScoreResult) Section(id string) (SectionScore, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionScore{}, false
}

// Progress is the form completion stat of a checklist.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}
