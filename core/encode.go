package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/storecheck/schema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Payload source prefixes understood by the encoder.
const (
	sourceTimestamp = "timestamp"
	sourceMeta      = "meta."
	sourceScore     = "score."
	sourceBucket    = "bucket."
	sourceSection   = "section."
	sourceConst     = "const."
	sourceElapsed   = "elapsed."
	sourceJSON      = "json."
)

// Submission bundles everything a payload is built from.
type Submission struct {
	Catalog   *schema.Catalog
	Responses schema.ResponseMap
	Remarks   schema.RemarksMap
	Images    schema.ImageMap
	Score     schema.ScoreResult
	Meta      schema.Metadata
	Now       time.Time
	Location  *time.Location
}

// Encode builds the ordered submission payload. Every catalog item appears exactly once
// per occurrence in catalog order, with an empty value when unanswered.
func Encode(sub Submission) (schema.SubmissionPayload, error) {
	if sub.Catalog == nil {
		return schema.SubmissionPayload{}, fmt.Errorf("encode: catalog is required")
	}
	var entries []schema.PayloadEntry
	layout := sub.Catalog.Payload

	header, err := renderFields(sub, layout.Header)
	if err != nil {
		return schema.SubmissionPayload{}, err
	}
	entries = append(entries, header...)

	for _, sec := range sub.Catalog.Sections {
		for _, item := range sec.Items {
			respKey := sub.Catalog.ResponseKey(sec.ID, item.ID)
			key := payloadKey(layout.KeyStyle, sec.ID, item.ID)
			entries = append(entries, schema.PayloadEntry{Key: key, Value: strings.TrimSpace(sub.Responses[respKey])})
			if layout.ItemRemarks {
				entries = append(entries, schema.PayloadEntry{Key: key + "_remarks", Value: strings.TrimSpace(sub.Remarks[respKey])})
			}
		}
	}

	if layout.SectionRemarks {
		for _, sec := range sub.Catalog.Sections {
			entries = append(entries, schema.PayloadEntry{
				Key:   sec.RemarksPrefix() + "_remarks",
				Value: strings.TrimSpace(sub.Remarks[sec.ID]),
			})
		}
	}

	footer, err := renderFields(sub, layout.Footer)
	if err != nil {
		return schema.SubmissionPayload{}, err
	}
	entries = append(entries, footer...)

	return schema.NewSubmissionPayload(entries), nil
}

// Columns returns the exact ordered key list Encode produces for a catalog, so the
// receiving sheet header can be generated from the same declaration.
func Columns(cat *schema.Catalog) []string {
	layout := cat.Payload
	var cols []string
	for _, f := range layout.Header {
		cols = append(cols, f.Key)
	}
	for _, sec := range cat.Sections {
		for _, item := range sec.Items {
			key := payloadKey(layout.KeyStyle, sec.ID, item.ID)
			cols = append(cols, key)
			if layout.ItemRemarks {
				cols = append(cols, key+"_remarks")
			}
		}
	}
	if layout.SectionRemarks {
		for _, sec := range cat.Sections {
			cols = append(cols, sec.RemarksPrefix()+"_remarks")
		}
	}
	for _, f := range layout.Footer {
		cols = append(cols, f.Key)
	}
	return cols
}

// Decode walks a form-encoded body positionally and recovers the response map.
// Every catalog item is present in the result; unanswered items map to "".
func Decode(cat *schema.Catalog, body string) (schema.ResponseMap, error) {
	entries, err := schema.ParseForm(body)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	cols := Columns(cat)
	if len(entries) != len(cols) {
		return nil, fmt.Errorf("decode body: got %d fields, want %d", len(entries), len(cols))
	}
	for i, col := range cols {
		if entries[i].Key != col {
			return nil, fmt.Errorf("decode body: field %d is %q, want %q", i, entries[i].Key, col)
		}
	}

	responses := make(schema.ResponseMap, cat.ItemCount())
	pos := len(cat.Payload.Header)
	for _, sec := range cat.Sections {
		for _, item := range sec.Items {
			responses[cat.ResponseKey(sec.ID, item.ID)] = entries[pos].Value
			pos++
			if cat.Payload.ItemRemarks {
				pos++
			}
		}
	}
	return responses, nil
}

// ValidateLayout checks that every payload source of a catalog can be rendered.
func ValidateLayout(cat *schema.Catalog) error {
	if _, ok := schema.ValidKeyStyles[cat.Payload.KeyStyle]; !ok {
		return fmt.Errorf("catalog %s: invalid payload key style %q", cat.Type, cat.Payload.KeyStyle)
	}
	seen := make(map[string]struct{})
	for _, f := range append(append([]schema.PayloadField{}, cat.Payload.Header...), cat.Payload.Footer...) {
		if f.Key == "" {
			return fmt.Errorf("catalog %s: payload field with empty key", cat.Type)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("catalog %s: duplicate payload field %q", cat.Type, f.Key)
		}
		seen[f.Key] = struct{}{}
		if err := validateSource(cat, f.Source); err != nil {
			return fmt.Errorf("catalog %s: field %q: %w", cat.Type, f.Key, err)
		}
	}
	return nil
}

func validateSource(cat *schema.Catalog, source string) error {
	switch {
	case source == sourceTimestamp:
		return nil
	case strings.HasPrefix(source, sourceMeta), strings.HasPrefix(source, sourceConst):
		return nil
	case strings.HasPrefix(source, sourceScore):
		switch strings.TrimPrefix(source, sourceScore) {
		case "total", "max", "percent":
			return nil
		}
	case strings.HasPrefix(source, sourceBucket), strings.HasPrefix(source, sourceSection):
		id := source[strings.Index(source, ".")+1:]
		if _, ok := cat.Section(id); ok {
			return nil
		}
		return fmt.Errorf("unknown section %q", id)
	case strings.HasPrefix(source, sourceElapsed):
		parts := strings.Split(strings.TrimPrefix(source, sourceElapsed), ".")
		if len(parts) != 2 {
			return fmt.Errorf("elapsed source needs two keys: %q", source)
		}
		for _, key := range parts {
			if _, _, ok := cat.FindItem(key); !ok {
				return fmt.Errorf("unknown response key %q", key)
			}
		}
		return nil
	case strings.HasPrefix(source, sourceJSON):
		switch strings.TrimPrefix(source, sourceJSON) {
		case "responses", "remarks", "images":
			return nil
		}
	}
	return fmt.Errorf("unknown source %q", source)
}

func payloadKey(style schema.KeyStyle, sectionID, itemID string) string {
	if style == schema.QualifiedKeys {
		return schema.QualifiedKey(sectionID, itemID)
	}
	return itemID
}

func renderFields(sub Submission, fields []schema.PayloadField) ([]schema.PayloadEntry, error) {
	out := make([]schema.PayloadEntry, 0, len(fields))
	for _, f := range fields {
		v, err := renderSource(sub, f.Source)
		if err != nil {
			return nil, fmt.Errorf("payload field %q: %w", f.Key, err)
		}
		out = append(out, schema.PayloadEntry{Key: f.Key, Value: v})
	}
	return out, nil
}

// renderSource resolves one payload source. meta sources accept a fallback after '|'.
func renderSource(sub Submission, source string) (string, error) {
	switch {
	case source == sourceTimestamp:
		return FormatTimestamp(sub.Now, sub.Location), nil
	case strings.HasPrefix(source, sourceMeta):
		field, fallback, _ := strings.Cut(strings.TrimPrefix(source, sourceMeta), "|")
		if v := strings.TrimSpace(sub.Meta.Get(field)); v != "" {
			return v, nil
		}
		return fallback, nil
	case strings.HasPrefix(source, sourceConst):
		return strings.TrimPrefix(source, sourceConst), nil
	case strings.HasPrefix(source, sourceScore):
		switch strings.TrimPrefix(source, sourceScore) {
		case "total":
			return formatNumber(sub.Score.Total), nil
		case "max":
			return formatNumber(sub.Score.Max), nil
		case "percent":
			return strconv.Itoa(sub.Score.Percent), nil
		}
	case strings.HasPrefix(source, sourceBucket):
		return formatNumber(sub.Score.BucketScores[strings.TrimPrefix(source, sourceBucket)]), nil
	case strings.HasPrefix(source, sourceSection):
		s, _ := sub.Score.Section(strings.TrimPrefix(source, sourceSection))
		return formatNumber(s.Earned), nil
	case strings.HasPrefix(source, sourceElapsed):
		start, end, _ := strings.Cut(strings.TrimPrefix(source, sourceElapsed), ".")
		return Elapsed(sub.Responses[start], sub.Responses[end]), nil
	case strings.HasPrefix(source, sourceJSON):
		return renderJSON(sub, strings.TrimPrefix(source, sourceJSON))
	}
	return "", fmt.Errorf("unknown source %q", source)
}

// renderJSON emits answered responses, remarks or image counts as a JSON object in catalog order.
func renderJSON(sub Submission, what string) (string, error) {
	cat := sub.Catalog
	var data []byte
	var err error
	switch what {
	case "responses":
		om := orderedmap.New[string, string]()
		for _, sec := range cat.Sections {
			for _, item := range sec.Items {
				key := cat.ResponseKey(sec.ID, item.ID)
				if v := strings.TrimSpace(sub.Responses[key]); v != "" {
					om.Set(key, v)
				}
			}
		}
		data, err = json.Marshal(om)
	case "remarks":
		om := orderedmap.New[string, string]()
		for _, sec := range cat.Sections {
			if v := strings.TrimSpace(sub.Remarks[sec.ID]); v != "" {
				om.Set(sec.ID, v)
			}
		}
		data, err = json.Marshal(om)
	case "images":
		om := orderedmap.New[string, int]()
		for _, sec := range cat.Sections {
			if n := sub.Images.Count(sec.ID); n > 0 {
				om.Set(sec.ID, n)
			}
		}
		data, err = json.Marshal(om)
	default:
		return "", fmt.Errorf("unknown json source %q", what)
	}
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	return string(data), nil
}

// FormatTimestamp renders a submission time as dd/mm/yyyy, HH:MM:SS in the given zone.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(schema.TimestampLayout)
}

// Elapsed renders the gap between two clock answers as "Xm Ys". It returns "N/A" when
// either side is missing and "Invalid" when the end precedes the start.
func Elapsed(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return schema.NotAvailable
	}
	s, okStart := clockSeconds(start)
	e, okEnd := clockSeconds(end)
	if !okStart || !okEnd {
		return "Invalid"
	}
	diff := e - s
	if diff < 0 {
		return "Invalid"
	}
	return fmt.Sprintf("%dm %ds", diff/60, diff%60)
}

// clockSeconds parses HH:MM:SS (seconds optional) into seconds since midnight.
func clockSeconds(v string) (int, bool) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for i, mult := range []int{3600, 60, 1} {
		if i >= len(parts) {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 {
			return 0, false
		}
		total += n * mult
	}
	return total, true
}

// formatNumber renders a score without trailing zeros (12 not 12.000000).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
