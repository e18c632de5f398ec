package iocache

import (
	"encoding/json"
	"fmt"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// Session is the in-progress state of one checklist, persisted under the catalog's storage keys.
type Session struct {
	Responses schema.ResponseMap `json:"responses"`
	Meta      schema.Metadata    `json:"meta"`
	Remarks   schema.RemarksMap  `json:"remarks"`
	Images    schema.ImageMap    `json:"images"`
}

// NewSession returns an empty session with initialized maps.
func NewSession() *Session {
	return &Session{
		Responses: schema.ResponseMap{},
		Remarks:   schema.RemarksMap{},
		Images:    schema.ImageMap{},
	}
}

// LoadSession reads a checklist session from the draft store. Missing keys yield empty maps.
func LoadSession(store contract.DraftStore, cat *schema.Catalog) (*Session, error) {
	s := NewSession()
	parts := []struct {
		key    string
		target any
	}{
		{cat.Storage.Responses, &s.Responses},
		{cat.Storage.Meta, &s.Meta},
		{cat.Storage.Remarks, &s.Remarks},
		{cat.Storage.Images, &s.Images},
	}
	for _, p := range parts {
		if p.key == "" {
			continue
		}
		data, _, err := store.Get(p.key)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		if err := json.Unmarshal(data, p.target); err != nil {
			return nil, fmt.Errorf("draft key %s is corrupt: %w", p.key, err)
		}
	}
	if s.Responses == nil {
		s.Responses = schema.ResponseMap{}
	}
	if s.Remarks == nil {
		s.Remarks = schema.RemarksMap{}
	}
	if s.Images == nil {
		s.Images = schema.ImageMap{}
	}
	return s, nil
}

// SaveSession writes every part of the session under its storage key. Parts without a
// storage key in the catalog are not persisted.
func SaveSession(store contract.DraftStore, cat *schema.Catalog, s *Session) error {
	parts := []struct {
		key   string
		value any
	}{
		{cat.Storage.Responses, s.Responses},
		{cat.Storage.Meta, s.Meta},
		{cat.Storage.Remarks, s.Remarks},
		{cat.Storage.Images, s.Images},
	}
	for _, p := range parts {
		if p.key == "" {
			continue
		}
		data, err := json.Marshal(p.value)
		if err != nil {
			return fmt.Errorf("failed to encode draft key %s: %w", p.key, err)
		}
		if err := store.Set(p.key, data); err != nil {
			return err
		}
	}
	return nil
}

// ResetSession deletes exactly the checklist's storage keys.
func ResetSession(store contract.DraftStore, cat *schema.Catalog) error {
	return store.Delete(cat.Storage.All()...)
}
