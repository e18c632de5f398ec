// Package catalog loads checklist catalogs from the embedded defaults, YAML files or
// Markdown files, and checks that a catalog can be scored and encoded.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/schema"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var builtinFS embed.FS

// ErrUnknownChecklist is returned when no built-in catalog exists for a checklist type.
var ErrUnknownChecklist = errors.New("unknown checklist")

// Load returns the built-in catalog of a checklist type.
func Load(checklist schema.ChecklistType) (*schema.Catalog, error) {
	data, err := builtinFS.ReadFile("catalogs/" + string(checklist) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChecklist, checklist)
	}
	return Parse(data)
}

// Resolve returns the catalog at path when one is given, otherwise the built-in catalog.
func Resolve(checklist schema.ChecklistType, path string) (*schema.Catalog, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Load(checklist)
}

// LoadFile reads a catalog from a YAML or Markdown file, chosen by extension.
func LoadFile(path string) (*schema.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return ParseMarkdown(data)
	case ".yaml", ".yml":
		return Parse(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file %q: must be .yaml, .yml or .md", path)
	}
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*schema.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cat schema.Catalog
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := Validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// List returns every built-in catalog ordered by type.
func List() ([]*schema.Catalog, error) {
	types := make([]string, 0, len(schema.ValidChecklistTypes))
	for t := range schema.ValidChecklistTypes {
		types = append(types, string(t))
	}
	slices.Sort(types)

	catalogs := make([]*schema.Catalog, 0, len(types))
	for _, t := range types {
		cat, err := Load(schema.ChecklistType(t))
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, cat)
	}
	return catalogs, nil
}

// Validate checks the structure of a catalog and its payload layout.
func Validate(cat *schema.Catalog) error {
	if cat.Type == "" {
		return fmt.Errorf("catalog has no type")
	}
	if len(cat.Sections) == 0 {
		return fmt.Errorf("catalog %s: no sections", cat.Type)
	}
	if cat.ResponseKeys != "" {
		if _, ok := schema.ValidKeyStyles[cat.ResponseKeys]; !ok {
			return fmt.Errorf("catalog %s: invalid response key style %q", cat.Type, cat.ResponseKeys)
		}
	}

	sectionIDs := make(map[string]struct{}, len(cat.Sections))
	responseKeys := make(map[string]struct{}, cat.ItemCount())
	for _, sec := range cat.Sections {
		if sec.ID == "" {
			return fmt.Errorf("catalog %s: section with empty id", cat.Type)
		}
		if _, dup := sectionIDs[sec.ID]; dup {
			return fmt.Errorf("catalog %s: duplicate section %q", cat.Type, sec.ID)
		}
		sectionIDs[sec.ID] = struct{}{}
		if sec.Variant != "" && !slices.Contains(cat.Variants, sec.Variant) {
			return fmt.Errorf("catalog %s: section %q uses undeclared variant %q", cat.Type, sec.ID, sec.Variant)
		}
		if len(sec.Items) == 0 {
			return fmt.Errorf("catalog %s: section %q has no items", cat.Type, sec.ID)
		}
		for _, item := range sec.Items {
			if err := validateItem(item); err != nil {
				return fmt.Errorf("catalog %s: section %q: %w", cat.Type, sec.ID, err)
			}
			key := cat.ResponseKey(sec.ID, item.ID)
			if _, dup := responseKeys[key]; dup {
				return fmt.Errorf("catalog %s: duplicate response key %q", cat.Type, key)
			}
			responseKeys[key] = struct{}{}
		}
	}

	for _, req := range cat.Required {
		if req.Label == "" || len(req.Fields) == 0 {
			return fmt.Errorf("catalog %s: required entries need fields and a label", cat.Type)
		}
	}
	return core.ValidateLayout(cat)
}

func validateItem(item schema.ChecklistItem) error {
	if item.ID == "" {
		return fmt.Errorf("item with empty id")
	}
	kind := item.EffectiveKind()
	if _, ok := schema.ValidItemKinds[kind]; !ok {
		return fmt.Errorf("item %q: invalid kind %q", item.ID, item.Kind)
	}
	if kind == schema.ChoiceItem && len(item.Choices) == 0 {
		return fmt.Errorf("item %q: choice item without choices", item.ID)
	}
	if kind != schema.ChoiceItem && len(item.Choices) > 0 {
		return fmt.Errorf("item %q: only choice items take choices", item.ID)
	}
	return nil
}

// Summarize describes a catalog for listings.
func Summarize(cat *schema.Catalog) schema.CatalogSummary {
	return schema.CatalogSummary{
		Type:     cat.Type,
		Title:    cat.Title,
		Version:  cat.Version,
		Variants: cat.Variants,
		Sections: len(cat.Sections),
		Items:    cat.ItemCount(),
		Columns:  len(core.Columns(cat)),
	}
}
