package refdata

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/storecheck/schema"
	"go.uber.org/zap"
)

// DefaultDebounceDelay coalesces the burst of events an editor save produces.
const DefaultDebounceDelay = 200 * time.Millisecond

// Watcher reloads a mapping file whenever it changes on disk.
type Watcher struct {
	source   *Source
	onReload func([]schema.StoreRecord)
	delay    time.Duration
}

// NewWatcher creates a watcher for a file-backed source. URLs cannot be watched.
func NewWatcher(source *Source, onReload func([]schema.StoreRecord)) (*Watcher, error) {
	if source == nil || source.Location == "" || isURL(source.Location) {
		return nil, fmt.Errorf("only file store mappings can be watched")
	}
	if source.Logger == nil {
		source.Logger = zap.NewNop()
	}
	return &Watcher{source: source, onReload: onReload, delay: DefaultDebounceDelay}, nil
}

// Run blocks until ctx is done, reloading the mapping after each change. The parent
// directory is watched so atomic replaces (write temp, rename) are seen too.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	target := filepath.Clean(w.source.Location)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.source.Logger.Warn("store mapping watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	records, err := w.source.Load(ctx)
	if err != nil {
		w.source.Logger.Warn("keeping previous store mapping", zap.Error(err))
		return
	}
	w.source.Logger.Info("reloaded store mapping", zap.Int("stores", len(records)))
	w.onReload(records)
}
