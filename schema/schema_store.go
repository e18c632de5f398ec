package schema

import (
	"maps"
	"strings"
)

// StoreRecord is the canonical store and personnel mapping row after alias normalization.
// Ids are trimmed and upper-cased; absent values are empty strings.
type StoreRecord struct {
	StoreID      string    `json:"storeId"`
	StoreName    string    `json:"storeName"`
	Region       string    `json:"region,omitempty"`
	Menu         string    `json:"menu,omitempty"`
	StoreType    string    `json:"storeType,omitempty"`
	Concept      string    `json:"concept,omitempty"`
	AMID         string    `json:"amId,omitempty"`
	AMName       string    `json:"amName,omitempty"`
	TrainerIDs   [3]string `json:"trainerIds"`
	TrainerNames [3]string `json:"trainerNames"`
	HRBPIDs      [3]string `json:"hrbpIds"`
	HRBPNames    [3]string `json:"hrbpNames"`
	RegionalHRID string    `json:"regionalHrId,omitempty"`
	RegionalHR   string    `json:"regionalHrName,omitempty"`
	HRHeadID     string    `json:"hrHeadId,omitempty"`
	HRHeadName   string    `json:"hrHeadName,omitempty"`
	LMSHeadID    string    `json:"lmsHeadId,omitempty"`
	TrainingHead string    `json:"trainingHead,omitempty"`
}

// HasTrainer reports whether any trainer slot matches the normalized id.
func (r StoreRecord) HasTrainer(id string) bool {
	for _, t := range r.TrainerIDs {
		if t != "" && t == id {
			return true
		}
	}
	return false
}

// HasHR reports whether any HR slot (HRBP 1-3, Regional HR, HR Head) matches the normalized id.
func (r StoreRecord) HasHR(id string) bool {
	if id == "" {
		return false
	}
	for _, h := range r.HRBPIDs {
		if h == id {
			return true
		}
	}
	return r.RegionalHRID == id || r.HRHeadID == id
}

// TrainerName returns the display name for a trainer id in this record.
func (r StoreRecord) TrainerName(id string) string {
	for i, t := range r.TrainerIDs {
		if t == id {
			return r.TrainerNames[i]
		}
	}
	return ""
}

// Selection field names, shared by metadata lookups and payload sources.
const (
	FieldTrainerID   = "trainerId"
	FieldTrainerName = "trainerName"
	FieldAMID        = "amId"
	FieldAMName      = "amName"
	FieldStoreID     = "storeId"
	FieldStoreName   = "storeName"
	FieldRegion      = "region"
	FieldVariant     = "scoresheetType"
)

// SelectionState is the cascading Trainer -> AM -> Store selection.
type SelectionState struct {
	TrainerID   string `json:"trainerId"`
	TrainerName string `json:"trainerName"`
	AMID        string `json:"amId"`
	AMName      string `json:"amName"`
	StoreID     string `json:"storeId"`
	StoreName   string `json:"storeName"`
	Region      string `json:"region,omitempty"`
}

// Empty reports whether nothing has been selected.
func (s SelectionState) Empty() bool {
	return s == SelectionState{}
}

// Metadata holds free-text session fields plus the cascading selection.
type Metadata struct {
	Selection SelectionState    `json:"selection"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Get returns a metadata field, resolving selection fields first. The region of a
// selected store wins over a typed region.
func (m Metadata) Get(field string) string {
	switch field {
	case FieldTrainerID:
		return m.Selection.TrainerID
	case FieldTrainerName:
		return m.Selection.TrainerName
	case FieldAMID:
		return m.Selection.AMID
	case FieldAMName:
		return m.Selection.AMName
	case FieldStoreID:
		return m.Selection.StoreID
	case FieldStoreName:
		return m.Selection.StoreName
	case FieldRegion:
		if m.Selection.Region != "" {
			return m.Selection.Region
		}
	}
	return m.Fields[field]
}

// Set writes a free-text field. Selection fields must go through the resolver.
func (m *Metadata) Set(field, value string) {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(m.Fields, field)
		return
	}
	m.Fields[field] = value
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() Metadata {
	out := Metadata{Selection: m.Selection}
	if m.Fields != nil {
		out.Fields = maps.Clone(m.Fields)
	}
	return out
}

// IsSelectionField reports whether a field is owned by the cascading resolver.
func IsSelectionField(field string) bool {
	switch field {
	case FieldTrainerID, FieldTrainerName, FieldAMID, FieldAMName, FieldStoreID, FieldStoreName:
		return true
	}
	return false
}

// AreaManager is an AM candidate with the stores and regions it covers.
type AreaManager struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	StoreCount int      `json:"storeCount"`
	Regions    []string `json:"regions"`
}

// Trainer is a trainer candidate across all trainer slots.
type Trainer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
