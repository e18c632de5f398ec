// Package refdata loads the store and personnel mapping and normalizes its column
// aliases into canonical store records at the ingestion boundary.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
	"go.uber.org/zap"
)

// Row is one raw mapping row as delivered by the spreadsheet export.
type Row map[string]any

// Source loads the mapping from a file path or an http(s) URL.
type Source struct {
	Location string
	Client   *http.Client
	Logger   *zap.Logger
}

var _ contract.ReferenceSource = &Source{}

// NewSource creates a source for a file path or URL.
func NewSource(location string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{Location: location, Client: http.DefaultClient, Logger: logger}
}

// Load reads and normalizes the mapping.
func (s *Source) Load(ctx context.Context) ([]schema.StoreRecord, error) {
	if s.Location == "" {
		return nil, fmt.Errorf("no store mapping configured: pass --mapping")
	}
	rc, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	rows, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode store mapping %s: %w", s.Location, err)
	}
	records := Normalize(rows, s.Logger)
	s.Logger.Debug("loaded store mapping", zap.String("location", s.Location), zap.Int("stores", len(records)))
	return records, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	if !isURL(s.Location) {
		f, err := os.Open(s.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to open store mapping: %w", err)
		}
		return f, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build store mapping request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store mapping: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch store mapping: %s", resp.Status)
	}
	return resp.Body, nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Decode reads a JSON array of mapping rows. Numbers are kept verbatim so numeric ids
// do not pick up a decimal point.
func Decode(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rows []Row
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Normalize maps every row into a canonical StoreRecord. Rows without a store id are
// dropped with a warning.
func Normalize(rows []Row, logger *zap.Logger) []schema.StoreRecord {
	if logger == nil {
		logger = zap.NewNop()
	}
	records := make([]schema.StoreRecord, 0, len(rows))
	for i, row := range rows {
		rec := normalizeRow(row)
		if rec.StoreID == "" {
			logger.Warn("dropping store mapping row without a store id", zap.Int("row", i))
			continue
		}
		records = append(records, rec)
	}
	return records
}

func normalizeRow(row Row) schema.StoreRecord {
	rec := schema.StoreRecord{
		StoreID:      schema.NormalizeID(row.first(storeIDAliases)),
		StoreName:    row.first(storeNameAliases),
		Region:       row.first(regionAliases),
		Menu:         row.first(menuAliases),
		StoreType:    row.first(storeTypeAliases),
		Concept:      row.first(conceptAliases),
		AMID:         schema.NormalizeID(row.first(amIDAliases)),
		AMName:       row.first(amNameAliases),
		RegionalHRID: schema.NormalizeID(row.first(regionalHRAliases)),
		RegionalHR:   row.first(regionalHRNames),
		HRHeadID:     schema.NormalizeID(row.first(hrHeadAliases)),
		HRHeadName:   row.first(hrHeadNameAliases),
		LMSHeadID:    schema.NormalizeID(row.first(lmsHeadAliases)),
		TrainingHead: row.first(trainingHeadAliases),
	}
	for slot := range 3 {
		rec.TrainerIDs[slot] = schema.NormalizeID(row.first(trainerIDAliases(slot + 1)))
		rec.TrainerNames[slot] = row.first(trainerNameAliases(slot + 1))
		rec.HRBPIDs[slot] = schema.NormalizeID(row.first(hrbpIDAliases(slot + 1)))
		rec.HRBPNames[slot] = row.first(hrbpNameAliases(slot + 1))
	}
	return rec
}

// first returns the first alias holding a present value, trimmed.
func (r Row) first(aliases []string) string {
	for _, alias := range aliases {
		v, ok := r[alias]
		if !ok {
			continue
		}
		s := stringify(v)
		if !schema.IsAbsent(s) {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
