// Package schema has configs, models and global variables for all parts of storecheck.
package schema

import (
	"math"
	"slices"
)

// Choice is one selectable answer of a choice item and the points it earns.
type Choice struct {
	Label string  `yaml:"label" json:"label"`
	Score float64 `yaml:"score" json:"score"`
}

// ChecklistItem is a single question of a checklist section.
// Items are immutable once a catalog has been loaded.
type ChecklistItem struct {
	ID             string   `yaml:"id" json:"id"`
	Question       string   `yaml:"question" json:"question"`
	Weight         float64  `yaml:"weight" json:"weight"`
	NegativeWeight *float64 `yaml:"negativeWeight,omitempty" json:"negativeWeight,omitempty"`
	Kind           ItemKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	Choices        []Choice `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// EffectiveKind returns the item kind, defaulting to a weighted check.
func (i ChecklistItem) EffectiveKind() ItemKind {
	if i.Kind == "" {
		return CheckItem
	}
	return i.Kind
}

// Scored reports whether the item contributes to the score at all.
func (i ChecklistItem) Scored() bool {
	k := i.EffectiveKind()
	return k != TextItem && k != TimeItem
}

// NoWeight returns the points earned for a "no" answer.
func (i ChecklistItem) NoWeight() float64 {
	if i.NegativeWeight == nil {
		return 0
	}
	return *i.NegativeWeight
}

// MaxChoiceScore returns the best score any choice can earn.
func (i ChecklistItem) MaxChoiceScore() float64 {
	best := 0.0
	for _, c := range i.Choices {
		best = math.Max(best, c.Score)
	}
	return best
}

// ChoiceScore returns the score of the choice with the given label.
func (i ChecklistItem) ChoiceScore(label string) (float64, bool) {
	for _, c := range i.Choices {
		if c.Label == label {
			return c.Score, true
		}
	}
	return 0, false
}

// ChecklistSection is an ordered group of items. Order is display and payload order.
type ChecklistSection struct {
	ID         string          `yaml:"id" json:"id"`
	Title      string          `yaml:"title" json:"title"`
	Items      []ChecklistItem `yaml:"items" json:"items"`
	Bucketed   bool            `yaml:"bucketed,omitempty" json:"bucketed,omitempty"`
	RemarksKey string          `yaml:"remarksKey,omitempty" json:"remarksKey,omitempty"`
	Variant    string          `yaml:"variant,omitempty" json:"variant,omitempty"`
}

// RemarksPrefix returns the payload prefix for section remarks.
func (s ChecklistSection) RemarksPrefix() string {
	if s.RemarksKey != "" {
		return s.RemarksKey
	}
	return s.ID
}

// ActiveFor reports whether the section belongs to the given scoresheet variant.
func (s ChecklistSection) ActiveFor(variant string) bool {
	return variant == "" || s.Variant == "" || s.Variant == variant
}

// PayloadField is one header or footer entry of a payload layout.
type PayloadField struct {
	Key    string `yaml:"key" json:"key"`
	Source string `yaml:"source" json:"source"`
}

// PayloadLayout declares the exact ordered submission layout of a catalog.
type PayloadLayout struct {
	Header         []PayloadField `yaml:"header" json:"header"`
	KeyStyle       KeyStyle       `yaml:"keyStyle" json:"keyStyle"`
	ItemRemarks    bool           `yaml:"itemRemarks,omitempty" json:"itemRemarks,omitempty"`
	SectionRemarks bool           `yaml:"sectionRemarks,omitempty" json:"sectionRemarks,omitempty"`
	Footer         []PayloadField `yaml:"footer,omitempty" json:"footer,omitempty"`
}

// StorageKeys are the fixed draft keys a checklist is persisted under.
type StorageKeys struct {
	Responses string `yaml:"responses" json:"responses"`
	Meta      string `yaml:"meta" json:"meta"`
	Remarks   string `yaml:"remarks,omitempty" json:"remarks,omitempty"`
	Images    string `yaml:"images,omitempty" json:"images,omitempty"`
}

// All returns every non-empty storage key in a stable order.
func (k StorageKeys) All() []string {
	var keys []string
	for _, key := range []string{k.Responses, k.Meta, k.Remarks, k.Images} {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// RequiredField is a group of metadata fields that must all be filled before submitting,
// reported to the user under one label.
type RequiredField struct {
	Fields []string `yaml:"fields" json:"fields"`
	Label  string   `yaml:"label" json:"label"`
}

// Catalog is a complete checklist template.
type Catalog struct {
	Type         ChecklistType      `yaml:"type" json:"type"`
	Title        string             `yaml:"title" json:"title"`
	Version      string             `yaml:"version" json:"version"`
	ResponseKeys KeyStyle           `yaml:"responseKeys,omitempty" json:"responseKeys,omitempty"`
	Variants     []string           `yaml:"variants,omitempty" json:"variants,omitempty"`
	Sections     []ChecklistSection `yaml:"sections" json:"sections"`
	Payload      PayloadLayout      `yaml:"payload" json:"payload"`
	Storage      StorageKeys        `yaml:"storage" json:"storage"`
	Required     []RequiredField    `yaml:"required,omitempty" json:"required,omitempty"`
}

// ResponseKey returns the response map key of an item in a section.
func (c *Catalog) ResponseKey(sectionID, itemID string) string {
	if c.ResponseKeys == ItemKeys {
		return itemID
	}
	return QualifiedKey(sectionID, itemID)
}

// ActiveSections returns the sections that apply to a scoresheet variant.
func (c *Catalog) ActiveSections(variant string) []ChecklistSection {
	active := make([]ChecklistSection, 0, len(c.Sections))
	for _, s := range c.Sections {
		if s.ActiveFor(variant) {
			active = append(active, s)
		}
	}
	return active
}

// Section returns the section with the given id.
func (c *Catalog) Section(id string) (ChecklistSection, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return ChecklistSection{}, false
}

// FindItem returns the section and item addressed by a response key.
func (c *Catalog) FindItem(key string) (ChecklistSection, ChecklistItem, bool) {
	for _, s := range c.Sections {
		for _, item := range s.Items {
			if c.ResponseKey(s.ID, item.ID) == key {
				return s, item, true
			}
		}
	}
	return ChecklistSection{}, ChecklistItem{}, false
}

// ItemCount returns the number of items across all sections.
func (c *Catalog) ItemCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Items)
	}
	return n
}

// RequiredLabel returns the label of a required field, or the field name itself.
func (c *Catalog) RequiredLabel(field string) string {
	for _, r := range c.Required {
		if slices.Contains(r.Fields, field) {
			return r.Label
		}
	}
	return field
}

// QualifiedKey joins a section and item id into a response key.
func QualifiedKey(sectionID, itemID string) string {
	return sectionID + "_" + itemID
}

// ResponseMap maps a response key to its raw answer. Absence means unanswered.
type ResponseMap map[string]string

// ImageMap maps a section id to its attached data-URIs.
type ImageMap map[string][]string

// RemarksMap maps a section id (or item key) to free-text remarks.
type RemarksMap map[string]string

// Answered reports whether a response key holds a non-blank answer.
func (r ResponseMap) Answered(key string) bool {
	return toLowerTrim(r[key]) != ""
}

// Count returns the number of images attached to a section.
func (m ImageMap) Count(sectionID string) int {
	return len(m[sectionID])
}
