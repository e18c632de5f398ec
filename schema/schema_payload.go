package schema

import (
	"net/url"
	"strings"
)

// PayloadEntry is one ordered key/value pair of a submission.
type PayloadEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SubmissionPayload is the write-once ordered submission. Duplicate keys are permitted.
type SubmissionPayload struct {
	entries []PayloadEntry
}

// NewSubmissionPayload freezes a list of entries into a payload.
func NewSubmissionPayload(entries []PayloadEntry) SubmissionPayload {
	return SubmissionPayload{entries: append([]PayloadEntry(nil), entries...)}
}

// Entries returns a copy of the ordered entries.
func (p SubmissionPayload) Entries() []PayloadEntry {
	return append([]PayloadEntry(nil), p.entries...)
}

// Keys returns the ordered keys, duplicates included.
func (p SubmissionPayload) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value of the first entry with the given key.
func (p SubmissionPayload) Get(key string) (string, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (p SubmissionPayload) Len() int {
	return len(p.entries)
}

// Encode renders the payload as an application/x-www-form-urlencoded body in entry order.
func (p SubmissionPayload) Encode() string {
	var b strings.Builder
	for i, e := range p.entries {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(e.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(e.Value))
	}
	return b.String()
}

// ParseForm splits a form-encoded body into ordered entries, keeping duplicates.
func ParseForm(body string) ([]PayloadEntry, error) {
	var entries []PayloadEntry
	if body == "" {
		return entries, nil
	}
	for pair := range strings.SplitSeq(body, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		entries = append(entries, PayloadEntry{Key: key, Value: value})
	}
	return entries, nil
}
