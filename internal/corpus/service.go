// Package corpus owns the reference set of existing street names: a lazily
// refreshed local snapshot of the upstream dataset, seeded from a bundled
// list when no snapshot exists.
package corpus

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"street-name-validation/internal/constants"
	"street-name-validation/pkg/logging"
	"street-name-validation/pkg/utils"
)

// Source is the upstream street dataset, queryable by a date-threshold
// predicate. Implementations return names entered on or after the watermark,
// ordered ascending, names only.
type Source interface {
	NamesEnteredSince(ctx context.Context, watermark string) ([]string, error)
}

// Service is the long-lived corpus cache. The names slice is shared read-only
// by all concurrent validation requests; mutation happens only inside Refresh,
// which swaps in a new slice rather than editing in place.
type Service struct {
	store Store
	log   *logging.ComponentLogger
	now   func() time.Time

	mu        sync.RWMutex
	names     []string
	keys      map[string]string // normalized key -> stored entry
	watermark string
	refreshed bool

	onReplace func([]string)
}

func NewService(store Store, log *logging.Logger) *Service {
	return &Service{
		store: store,
		log:   log.WithComponent("corpus"),
		now:   time.Now,
	}
}

// OnReplace registers a callback invoked with the new name list whenever the
// corpus is swapped (initial load and refresh). Used to push snapshots to the
// similarity scanner.
func (s *Service) OnReplace(fn func([]string)) {
	s.mu.Lock()
	s.onReplace = fn
	s.mu.Unlock()
}

// Load reads the persisted snapshot, falling back silently to the bundled
// seed list when the store is unavailable or corrupt. Safe to call once at
// startup before any validation runs.
func (s *Service) Load() {
	names, watermark := s.readSnapshot()
	s.mu.Lock()
	s.replaceLocked(names, watermark)
	fn := s.onReplace
	list := s.names
	s.mu.Unlock()

	s.log.Info("corpus loaded", logging.Int("names", len(names)), logging.String("watermark", watermark))
	if fn != nil {
		fn(list)
	}
}

func (s *Service) readSnapshot() ([]string, string) {
	watermark := SeedWatermark
	if raw, ok := s.store.Get(constants.CorpusWatermarkKey); ok {
		if _, err := time.Parse(constants.WatermarkLayout, string(raw)); err == nil {
			watermark = string(raw)
		} else {
			s.log.Warn("stored watermark unreadable, using seed date", logging.String("raw", string(raw)))
		}
	}

	raw, ok := s.store.Get(constants.CorpusNamesKey)
	if !ok {
		return SeedList(), watermark
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil || len(names) == 0 {
		s.log.Warn("stored name list unreadable, reseeding from bundled list")
		return SeedList(), SeedWatermark
	}
	sort.Strings(names)
	return names, watermark
}

// Refresh queries upstream for names entered since the watermark, merges them
// into the snapshot (set union, re-sorted ascending) and persists the result
// with today's date as the new watermark. Runs at most once per process; later
// calls are no-ops. A failed query leaves the cached corpus untouched.
func (s *Service) Refresh(ctx context.Context, src Source) (added int, err error) {
	s.mu.Lock()
	if s.refreshed {
		s.mu.Unlock()
		return 0, nil
	}
	s.refreshed = true
	watermark := s.watermark
	s.mu.Unlock()

	fetched, err := src.NamesEnteredSince(ctx, watermark)
	if err != nil {
		s.mu.Lock()
		s.refreshed = false // allow a later explicit retry
		s.mu.Unlock()
		s.log.Warn("corpus refresh failed, validating against cached corpus", logging.String("watermark", watermark), logging.Any("error", err.Error()))
		return 0, err
	}

	s.mu.Lock()
	merged := make([]string, len(s.names))
	copy(merged, s.names)
	existing := make(map[string]struct{}, len(merged))
	for _, n := range merged {
		existing[n] = struct{}{}
	}
	for _, n := range fetched {
		if _, dup := existing[n]; dup {
			continue
		}
		existing[n] = struct{}{}
		merged = append(merged, n)
		added++
	}
	sort.Strings(merged)

	today := s.now().Format(constants.WatermarkLayout)
	s.replaceLocked(merged, today)
	s.persistLocked()
	fn := s.onReplace
	list := s.names
	s.mu.Unlock()

	s.log.Info("corpus refreshed", logging.Int("added", added), logging.String("watermark", today))

	if fn != nil {
		fn(list)
	}
	return added, nil
}

// Names returns the current snapshot. Callers must treat it as read-only.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names
}

// Watermark returns the date through which the corpus is known complete.
func (s *Service) Watermark() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watermark
}

// FindExact returns the stored entry whose whitespace-stripped, case-folded
// form equals the candidate's, if any. "maple " matches "Maple"; "Maplewood"
// does not match "Maple".
func (s *Service) FindExact(name string) (string, bool) {
	key := utils.NormalizeKey(name)
	if key == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.keys[key]
	return entry, ok
}

// Evict removes the persisted snapshot. The in-memory corpus is left intact;
// the next process start reseeds from the bundled list.
func (s *Service) Evict() error {
	if err := s.store.Delete(constants.CorpusNamesKey); err != nil {
		return err
	}
	return s.store.Delete(constants.CorpusWatermarkKey)
}

func (s *Service) replaceLocked(names []string, watermark string) {
	s.names = names
	s.watermark = watermark
	s.keys = make(map[string]string, len(names))
	for _, n := range names {
		s.keys[utils.NormalizeKey(n)] = n
	}
}

func (s *Service) persistLocked() {
	raw, err := json.Marshal(s.names)
	if err != nil {
		s.log.Warn("corpus snapshot marshal failed", logging.Any("error", err.Error()))
		return
	}
	if err := s.store.Set(constants.CorpusNamesKey, raw); err != nil {
		s.log.Warn("corpus snapshot persist failed", logging.Any("error", err.Error()))
		return
	}
	if err := s.store.Set(constants.CorpusWatermarkKey, []byte(s.watermark)); err != nil {
		s.log.Warn("corpus watermark persist failed", logging.Any("error", err.Error()))
	}
}
