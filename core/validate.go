package core

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/storecheck/schema"
)

// Validation sentinels. Errors returned by the validators wrap one of these.
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrIncomplete    = errors.New("unanswered questions")
)

// maxListedQuestions caps how many unanswered questions are spelled out.
const maxListedQuestions = 3

// MissingFieldsError lists the labels of required metadata that is not filled.
type MissingFieldsError struct {
	Labels []string
}

func (e *MissingFieldsError) Error() string {
	return "please fill in all required information fields: " + strings.Join(e.Labels, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// IncompleteError lists unanswered questions as "Section: question".
type IncompleteError struct {
	Questions []string
}

func (e *IncompleteError) Error() string {
	var b strings.Builder
	b.WriteString("please answer all questions. Missing:")
	for i, q := range e.Questions {
		if i == maxListedQuestions {
			fmt.Fprintf(&b, "\n... and %d more", len(e.Questions)-maxListedQuestions)
			break
		}
		b.WriteString("\n")
		b.WriteString(q)
	}
	return b.String()
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

// ValidateMetadata reports required metadata that is missing, in catalog order.
func ValidateMetadata(cat *schema.Catalog, meta schema.Metadata) error {
	var missing []string
	for _, req := range cat.Required {
		for _, field := range req.Fields {
			if strings.TrimSpace(meta.Get(field)) == "" {
				missing = append(missing, req.Label)
				break
			}
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Labels: missing}
	}
	return nil
}

// ValidateComplete reports every unanswered question of the active sections. Image items
// are answered by attaching images and are not checked here.
func ValidateComplete(cat *schema.Catalog, variant string, responses schema.ResponseMap) error {
	var questions []string
	for _, sec := range cat.ActiveSections(variant) {
		for _, item := range sec.Items {
			if item.EffectiveKind() == schema.ImageItem {
				continue
			}
			if !responses.Answered(cat.ResponseKey(sec.ID, item.ID)) {
				questions = append(questions, sec.Title+": "+item.Question)
			}
		}
	}
	if len(questions) > 0 {
		return &IncompleteError{Questions: questions}
	}
	return nil
}

// ValidateResponses rejects answers that cannot belong to the catalog: unknown keys,
// check answers other than yes/no/na and unknown choice labels.
func ValidateResponses(cat *schema.Catalog, responses schema.ResponseMap) error {
	var errs []error
	for _, key := range slices.Sorted(maps.Keys(responses)) {
		raw := responses[key]
		_, item, ok := cat.FindItem(key)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown question %q", key))
			continue
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		switch item.EffectiveKind() {
		case schema.CheckItem:
			if _, ok := schema.ValidAnswers[schema.NormalizeAnswer(raw)]; !ok {
				errs = append(errs, fmt.Errorf("question %q: answer must be yes, no or na, got %q", key, raw))
			}
		case schema.ChoiceItem:
			if _, ok := item.ChoiceScore(raw); !ok {
				errs = append(errs, fmt.Errorf("question %q: unknown choice %q", key, raw))
			}
		case schema.TimeItem:
			if _, ok := clockSeconds(raw); !ok {
				errs = append(errs, fmt.Errorf("question %q: time must be HH:MM:SS, got %q", key, raw))
			}
		}
	}
	return errors.Join(errs...)
}
