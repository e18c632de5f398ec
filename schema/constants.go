package schema

import "time"

// Custom string types for type safety.
type (
	// Answer represents a recorded response to a checklist item.
	Answer string

	// ItemKind represents how a checklist item is answered and scored.
	ItemKind string

	// ChecklistType represents a checklist catalog identifier.
	ChecklistType string

	// KeyStyle represents how item keys are rendered.
	KeyStyle string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for drafts and history.
	DatabaseBackend string

	// SubmissionStatus represents the outcome of a submission attempt.
	SubmissionStatus string
)

// Answers with scoring meaning. Anything else is a choice label, a time or free text.
const (
	AnswerYes Answer = "yes"
	AnswerNo  Answer = "no"
	AnswerNA  Answer = "na"
)

// All item kinds supported.
const (
	CheckItem  ItemKind = "check" // default
	TextItem   ItemKind = "text"
	TimeItem   ItemKind = "time"
	ChoiceItem ItemKind = "choice"
	ImageItem  ItemKind = "image"
)

// Built-in checklist catalogs.
const (
	TrainingChecklist     ChecklistType = "training" // default
	BrewLeagueAMChecklist ChecklistType = "brew-league-am"
	HRChecklist           ChecklistType = "hr"
)

// All key styles supported.
const (
	ItemKeys      KeyStyle = "item"      // bare item id
	QualifiedKeys KeyStyle = "qualified" // sectionId_itemId
)

// All output modes supported.
const (
	CSVOut      OutputMode = "csv"
	TextOut     OutputMode = "text" // default
	JSONOut     OutputMode = "json"
	MarkdownOut OutputMode = "markdown"
	ParquetOut  OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	FileBackend       DatabaseBackend = "file"
	NoneBackend       DatabaseBackend = "none"
)

// All submission statuses recorded in history.
const (
	SubmittedStatus SubmissionStatus = "submitted"
	FailedStatus    SubmissionStatus = "failed"
	DryRunStatus    SubmissionStatus = "dry-run"
)

// Bucketed rubric for training skill assessment sections.
const (
	BucketHighThreshold = 85.0
	BucketLowThreshold  = 75.0
	BucketHighPoints    = 10.0
	BucketLowPoints     = 5.0
	BucketMaxPoints     = BucketHighPoints
)

// Defaults shared by config and the submission sink.
const (
	DefaultTimezone      = "Asia/Kolkata"
	DefaultMinRequestGap = 2 * time.Second
	DefaultSubmitTimeout = 30 * time.Second
	DefaultPrecision     = 1
	TimestampLayout      = "02/01/2006, 15:04:05"
	NotAvailable         = "N/A"
)

// ValidAnswers lists the answers with scoring meaning.
var ValidAnswers = map[Answer]struct{}{
	AnswerYes: {},
	AnswerNo:  {},
	AnswerNA:  {},
}

// ValidItemKinds lists all valid item kinds.
var ValidItemKinds = map[ItemKind]struct{}{
	CheckItem:  {},
	TextItem:   {},
	TimeItem:   {},
	ChoiceItem: {},
	ImageItem:  {},
}

// ValidChecklistTypes lists the built-in checklist catalogs.
var ValidChecklistTypes = map[ChecklistType]struct{}{
	TrainingChecklist:     {},
	BrewLeagueAMChecklist: {},
	HRChecklist:           {},
}

// ValidKeyStyles lists all valid key styles.
var ValidKeyStyles = map[KeyStyle]struct{}{
	ItemKeys:      {},
	QualifiedKeys: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:      {},
	TextOut:     {},
	JSONOut:     {},
	MarkdownOut: {},
	ParquetOut:  {},
}

// ValidDraftBackends lists all valid draft backends.
var ValidDraftBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	FileBackend:       {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSubmissionStatuses lists all valid submission statuses.
var ValidSubmissionStatuses = map[SubmissionStatus]struct{}{
	SubmittedStatus: {},
	FailedStatus:    {},
	DryRunStatus:    {},
}

// NormalizeAnswer lower-cases and trims a raw answer so "Yes " and "yes" compare equal.
func NormalizeAnswer(raw string) Answer {
	return Answer(toLowerTrim(raw))
}
