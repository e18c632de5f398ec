package catalog

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/storecheck/schema"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Markdown catalogs look like this:
//
//	---
//	type: store-visit
//	title: Store Visit
//	payload: {keyStyle: item, header: [{key: storeId, source: meta.storeId}]}
//	storage: {responses: visit_resp, meta: visit_meta}
//	---
//	## Cleanliness | Cleanliness {remarks=CL}
//	- [CL_1] Floor clean? (w=2)
//	- [CL_2] Washroom stocked? (w=1; neg=-1)
//	## Skills | Skill Assessment {bucketed}
//	- [SK_NAME] Employee name (kind=text)
//	- [SK_1] Follows recipe (w=1)
//
// The front matter takes every catalog field except sections.
var (
	sectionHeading = regexp.MustCompile(`^([A-Za-z0-9_]+)\s*(?:\|\s*(.*?))?\s*(?:\{([^}]*)\})?$`)
	itemLine       = regexp.MustCompile(`^\[([^\]]+)\]\s+(.+)$`)
	trailingOpts   = regexp.MustCompile(`\s+\(([^()]*)\)$`)
)

var markdown = goldmark.New()

// ParseMarkdown decodes and validates a Markdown catalog.
func ParseMarkdown(data []byte) (*schema.Catalog, error) {
	body, front := splitFrontMatter(data)
	var cat schema.Catalog
	if front != nil {
		dec := yaml.NewDecoder(bytes.NewReader(front))
		dec.KnownFields(true)
		if err := dec.Decode(&cat); err != nil {
			return nil, fmt.Errorf("failed to decode catalog front matter: %w", err)
		}
	}
	if len(cat.Sections) > 0 {
		return nil, fmt.Errorf("markdown catalogs declare sections as headings, not in front matter")
	}

	doc := markdown.Parser().Parse(text.NewReader(body))
	var current *schema.ChecklistSection
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			line := blockText(node, body)
			switch node.Level {
			case 1:
				if cat.Title == "" {
					cat.Title = line
				}
			case 2:
				sec, err := parseSectionHeading(line)
				if err != nil {
					return nil, err
				}
				cat.Sections = append(cat.Sections, sec)
				current = &cat.Sections[len(cat.Sections)-1]
			}
		case *ast.List:
			if current == nil {
				return nil, fmt.Errorf("question list before the first section heading")
			}
			for li := node.FirstChild(); li != nil; li = li.NextSibling() {
				if li.FirstChild() == nil {
					continue
				}
				item, err := parseItemLine(blockText(li.FirstChild(), body))
				if err != nil {
					return nil, fmt.Errorf("section %q: %w", current.ID, err)
				}
				current.Items = append(current.Items, item)
			}
		}
	}

	if err := Validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// blockText joins the raw source lines of a block node.
func blockText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.Write(bytes.TrimSpace(seg.Value(source)))
	}
	return strings.TrimSpace(buf.String())
}

func parseSectionHeading(line string) (schema.ChecklistSection, error) {
	m := sectionHeading.FindStringSubmatch(line)
	if m == nil {
		return schema.ChecklistSection{}, fmt.Errorf("invalid section heading %q: want \"Id | Title {options}\"", line)
	}
	sec := schema.ChecklistSection{ID: m[1], Title: m[2]}
	if sec.Title == "" {
		sec.Title = sec.ID
	}
	for opt := range strings.SplitSeq(m[3], ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch strings.TrimSpace(key) {
		case "":
		case "bucketed":
			sec.Bucketed = true
		case "remarks":
			sec.RemarksKey = strings.TrimSpace(value)
		case "variant":
			sec.Variant = strings.TrimSpace(value)
		default:
			return schema.ChecklistSection{}, fmt.Errorf("section %q: unknown option %q", sec.ID, key)
		}
	}
	return sec, nil
}

// parseItemLine reads "[ID] question (opts)". A trailing parenthesis that is not a valid
// option list stays part of the question.
func parseItemLine(line string) (schema.ChecklistItem, error) {
	m := itemLine.FindStringSubmatch(line)
	if m == nil {
		return schema.ChecklistItem{}, fmt.Errorf("invalid question %q: want \"[ID] question (w=N)\"", line)
	}
	item := schema.ChecklistItem{ID: strings.TrimSpace(m[1]), Question: m[2]}
	if om := trailingOpts.FindStringSubmatchIndex(item.Question); om != nil {
		opts := item.Question[om[2]:om[3]]
		if parsed, ok := parseItemOptions(item, opts); ok {
			parsed.Question = strings.TrimSpace(item.Question[:om[0]])
			return parsed, nil
		}
	}
	item.Weight = 1
	return item, nil
}

func parseItemOptions(item schema.ChecklistItem, opts string) (schema.ChecklistItem, bool) {
	item.Weight = 1
	for opt := range strings.SplitSeq(opts, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(opt), "=")
		if !ok {
			return item, false
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "w":
			w, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return item, false
			}
			item.Weight = w
		case "neg":
			w, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return item, false
			}
			item.NegativeWeight = &w
		case "kind":
			item.Kind = schema.ItemKind(value)
			if item.Kind == schema.TextItem || item.Kind == schema.TimeItem {
				item.Weight = 0
			}
		case "choices":
			for choice := range strings.SplitSeq(value, "|") {
				label, score, ok := strings.Cut(choice, ":")
				if !ok {
					return item, false
				}
				s, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
				if err != nil {
					return item, false
				}
				item.Choices = append(item.Choices, schema.Choice{Label: strings.TrimSpace(label), Score: s})
			}
			item.Kind = schema.ChoiceItem
		default:
			return item, false
		}
	}
	return item, true
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
func splitFrontMatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			return bytes.Join(lines[i+1:], []byte("\n")), bytes.Join(lines[1:i], []byte("\n"))
		}
	}
	return content, nil
}
