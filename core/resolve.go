package core

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/huangsam/storecheck/core/algo"
	"github.com/huangsam/storecheck/schema"
	"go.uber.org/zap"
)

// ErrNotCandidate is returned when an id is not a valid choice under the current selection.
var ErrNotCandidate = errors.New("not a candidate under the current selection")

// Resolver owns the cascading Trainer -> AM -> Store selection over the store mapping.
// Writing an upstream level clears every level below it, so the selection always stays
// consistent with at least one store record.
type Resolver struct {
	mu      sync.RWMutex
	records []schema.StoreRecord
	state   schema.SelectionState
	logger  *zap.Logger
}

// NewResolver creates a resolver over normalized store records.
func NewResolver(records []schema.StoreRecord, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{records: records, logger: logger}
}

// State returns the current selection.
func (r *Resolver) State() schema.SelectionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Len returns the number of store records.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Fork returns a resolver over the same store records with an empty selection.
func (r *Resolver) Fork() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Resolver{records: r.records, logger: r.logger}
}

// Replace swaps the store records and revalidates the current selection against them.
func (r *Resolver) Replace(records []schema.StoreRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
	r.state = r.rehydrateLocked(r.state)
}

// SetTrainer selects a trainer and clears the AM and store. An empty id clears everything.
func (r *Resolver) SetTrainer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = schema.NormalizeID(id)
	r.state = schema.SelectionState{TrainerID: id}
	if id == "" {
		return
	}
	r.state.TrainerName = r.trainerNameLocked(id)
	if !r.knownTrainerLocked(id) {
		r.logger.Warn("trainer not found in store mapping", zap.String("trainer_id", id))
	}
}

// SetAM selects an area manager and clears the store. The AM must be a candidate under
// the current trainer filter, otherwise the selection is left unchanged.
func (r *Resolver) SetAM(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = schema.NormalizeID(id)
	if id == "" {
		r.state.AMID, r.state.AMName = "", ""
		r.clearStoreLocked()
		return nil
	}
	for _, am := range r.areaManagersLocked() {
		if am.ID == id {
			r.state.AMID, r.state.AMName = am.ID, am.Name
			r.clearStoreLocked()
			return nil
		}
	}
	return fmt.Errorf("area manager %s: %w", id, ErrNotCandidate)
}

// SelectStore selects a store and auto-fills its region, AM and Trainer 1 from the record.
// An unknown id leaves the selection untouched and logs a warning.
func (r *Resolver) SelectStore(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = schema.NormalizeID(id)
	if id == "" {
		r.clearStoreLocked()
		return true
	}
	rec, ok := r.findStoreLocked(id)
	if !ok {
		r.logger.Warn("store not found in store mapping; leaving selection unchanged", zap.String("store_id", id))
		return false
	}
	r.applyStoreLocked(rec)
	return true
}

// clearStoreLocked drops the store and the fields derived from it.
func (r *Resolver) clearStoreLocked() {
	r.state.StoreID, r.state.StoreName, r.state.Region = "", "", ""
}

// applyStoreLocked writes a store and its dependent fields into the selection.
func (r *Resolver) applyStoreLocked(rec schema.StoreRecord) {
	r.state.StoreID, r.state.StoreName, r.state.Region = rec.StoreID, rec.StoreName, rec.Region
	r.state.AMID, r.state.AMName = rec.AMID, rec.AMName
	switch {
	case rec.TrainerIDs[0] != "":
		r.state.TrainerID, r.state.TrainerName = rec.TrainerIDs[0], rec.TrainerNames[0]
	case !rec.HasTrainer(r.state.TrainerID):
		r.state.TrainerID, r.state.TrainerName = "", ""
	}
}

// Stores returns the candidate stores for the current selection, narrowed by a
// case-insensitive search on store name or id.
func (r *Resolver) Stores(search string) []schema.StoreRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterBySearch(r.candidateStoresLocked(), search)
}

// candidateStoresLocked applies the AM filter first, then the trainer filter.
func (r *Resolver) candidateStoresLocked() []schema.StoreRecord {
	var out []schema.StoreRecord
	for _, rec := range r.records {
		if r.state.AMID != "" && rec.AMID != r.state.AMID {
			continue
		}
		if r.state.TrainerID != "" && !rec.HasTrainer(r.state.TrainerID) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// filterBySearch keeps records whose name or id contains the search term.
func filterBySearch(records []schema.StoreRecord, search string) []schema.StoreRecord {
	search = strings.TrimSpace(search)
	if search == "" {
		return records
	}
	var out []schema.StoreRecord
	for _, rec := range records {
		if schema.ContainsFold(rec.StoreName, search) || schema.ContainsFold(rec.StoreID, search) {
			out = append(out, rec)
		}
	}
	return out
}

// Trainers returns every distinct trainer across all trainer slots, sorted by name.
func (r *Resolver) Trainers() []schema.Trainer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]int)
	var out []schema.Trainer
	for _, rec := range r.records {
		for i, id := range rec.TrainerIDs {
			if id == "" {
				continue
			}
			if idx, ok := seen[id]; ok {
				if out[idx].Name == "" {
					out[idx].Name = rec.TrainerNames[i]
				}
				continue
			}
			seen[id] = len(out)
			out = append(out, schema.Trainer{ID: id, Name: rec.TrainerNames[i]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AreaManagers returns the distinct AMs under the current trainer filter with their
// store count and regions, busiest first.
func (r *Resolver) AreaManagers() []schema.AreaManager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.areaManagersLocked()
}

func (r *Resolver) areaManagersLocked() []schema.AreaManager {
	byID := make(map[string]*schema.AreaManager)
	var order []string
	for _, rec := range r.records {
		if rec.AMID == "" {
			continue
		}
		if r.state.TrainerID != "" && !rec.HasTrainer(r.state.TrainerID) {
			continue
		}
		am, ok := byID[rec.AMID]
		if !ok {
			am = &schema.AreaManager{ID: rec.AMID}
			byID[rec.AMID] = am
			order = append(order, rec.AMID)
		}
		if am.Name == "" {
			am.Name = rec.AMName
		}
		am.StoreCount++
		if rec.Region != "" && !slices.Contains(am.Regions, rec.Region) {
			am.Regions = append(am.Regions, rec.Region)
		}
	}
	out := make([]schema.AreaManager, 0, len(order))
	for _, id := range order {
		am := byID[id]
		sort.Strings(am.Regions)
		out = append(out, *am)
	}
	return algo.RankAreaManagers(out)
}

// StoresForHR returns stores where the id appears as HRBP 1-3, Regional HR or HR Head.
func (r *Resolver) StoresForHR(hrID string) []schema.StoreRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hrID = schema.NormalizeID(hrID)
	var out []schema.StoreRecord
	for _, rec := range r.records {
		if rec.HasHR(hrID) {
			out = append(out, rec)
		}
	}
	return out
}

// LookupStore finds a store by exact id, then by a zero-padded numeric id (7 -> S007),
// then by a case-insensitive store name match.
func (r *Resolver) LookupStore(query string) (schema.StoreRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	query = strings.TrimSpace(query)
	if query == "" {
		return schema.StoreRecord{}, false
	}
	if rec, ok := r.findStoreLocked(schema.NormalizeID(query)); ok {
		return rec, true
	}
	if schema.IsNumeric(query) {
		if n, err := strconv.Atoi(query); err == nil {
			if rec, ok := r.findStoreLocked(fmt.Sprintf("S%03d", n)); ok {
				return rec, true
			}
		}
	}
	for _, rec := range r.records {
		if rec.StoreName != "" && schema.ContainsFold(rec.StoreName, query) {
			return rec, true
		}
	}
	r.logger.Warn("store lookup found no match", zap.String("query", query))
	return schema.StoreRecord{}, false
}

// Rehydrate loads a persisted selection, dropping any level that no longer matches the
// store mapping, and returns the selection that was applied.
func (r *Resolver) Rehydrate(sel schema.SelectionState) schema.SelectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = r.rehydrateLocked(sel)
	return r.state
}

func (r *Resolver) rehydrateLocked(sel schema.SelectionState) schema.SelectionState {
	r.state = schema.SelectionState{}
	if id := schema.NormalizeID(sel.TrainerID); id != "" {
		if !r.knownTrainerLocked(id) {
			r.logger.Warn("dropping stale trainer from selection", zap.String("trainer_id", id))
			return r.state
		}
		r.state.TrainerID, r.state.TrainerName = id, r.trainerNameLocked(id)
	}
	if id := schema.NormalizeID(sel.AMID); id != "" {
		found := false
		for _, am := range r.areaManagersLocked() {
			if am.ID == id {
				r.state.AMID, r.state.AMName = am.ID, am.Name
				found = true
				break
			}
		}
		if !found {
			r.logger.Warn("dropping stale area manager from selection", zap.String("am_id", id))
			return r.state
		}
	}
	if id := schema.NormalizeID(sel.StoreID); id != "" {
		for _, rec := range r.candidateStoresLocked() {
			if rec.StoreID == id {
				r.state.StoreID, r.state.StoreName, r.state.Region = rec.StoreID, rec.StoreName, rec.Region
				return r.state
			}
		}
		r.logger.Warn("dropping stale store from selection", zap.String("store_id", id))
	}
	return r.state
}

func (r *Resolver) findStoreLocked(id string) (schema.StoreRecord, bool) {
	for _, rec := range r.records {
		if rec.StoreID == id {
			return rec, true
		}
	}
	return schema.StoreRecord{}, false
}

func (r *Resolver) knownTrainerLocked(id string) bool {
	for _, rec := range r.records {
		if rec.HasTrainer(id) {
			return true
		}
	}
	return false
}

func (r *Resolver) trainerNameLocked(id string) string {
	for _, rec := range r.records {
		if name := rec.TrainerName(id); name != "" {
			return name
		}
	}
	return ""
}
