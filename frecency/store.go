// Package frecency keeps shell commands ranked by a recency/frequency score.
//
// A Store holds every entry twice: in a tree ordered by (score desc,
// text asc) for ranked reads, and in a map keyed by text for lookups.
// Both views change together under one mutex, so callers never observe
// a text in one index but not the other.
package frecency

import (
	"sync"
	"time"

	"github.com/emirpasic/gods/sets/treeset"
	"go.uber.org/zap"

	"github.com/teranos/alman/logger"
)

// Defaults for Store options
const (
	DefaultRescaleThreshold int64   = 250
	DefaultMinCommandLength int64   = 5
	DefaultRescaleFactor    float64 = 0.1
	DefaultTop                      = 5
)

// Store is the dual-indexed frecency store.
type Store struct {
	mu         sync.Mutex
	index      *treeset.Set
	byText     map[string]Entry
	totalScore int64
	tombstones *TombstoneSet

	threshold  int64
	minLength  int64
	factor     float64
	defaultTop int
	now        func() time.Time
	logger     *zap.SugaredLogger
}

// Option configures a Store.
type Option func(*Store)

// WithThreshold sets the total score above which a rescale runs.
func WithThreshold(threshold int64) Option {
	return func(s *Store) { s.threshold = threshold }
}

// WithMinLength sets the length a single-word command must exceed to be tracked.
func WithMinLength(minLength int64) Option {
	return func(s *Store) { s.minLength = minLength }
}

// WithRescaleFactor sets the multiplier applied to frequencies on rescale.
func WithRescaleFactor(factor float64) Option {
	return func(s *Store) { s.factor = factor }
}

// WithDefaultTop sets how many entries Top returns for n <= 0.
func WithDefaultTop(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.defaultTop = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) { s.logger = logger.OrNop(l) }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		index:      treeset.NewWith(compareEntries),
		byText:     make(map[string]Entry),
		tombstones: NewTombstoneSet(),
		threshold:  DefaultRescaleThreshold,
		minLength:  DefaultMinCommandLength,
		factor:     DefaultRescaleFactor,
		defaultTop: DefaultTop,
		now:        time.Now,
		logger:     logger.ComponentLogger("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records one use of text.
// Tombstoned texts are ignored. A new text is tracked only when it is
// longer than the minimum length or is not a single word.
func (s *Store) Add(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(text)
}

func (s *Store) addLocked(text string) {
	if text == "" || s.tombstones.Contains(text) {
		return
	}
	now := s.now().Unix()

	if old, ok := s.byText[text]; ok {
		updated := old
		updated.Frequency = satInc(old.Frequency)
		updated.LastAccess = now
		updated.Score = Score(updated, now)
		s.deleteLocked(old)
		s.insertLocked(updated)
	} else {
		e := NewEntry(text, now)
		if !s.tracks(e) {
			return
		}
		e.Score = Score(e, now)
		s.insertLocked(e)
	}

	if s.totalScore > s.threshold {
		s.rescaleLocked()
	}
}

func (s *Store) tracks(e Entry) bool {
	if e.Words == 0 {
		return false
	}
	return e.Length > s.minLength || e.Words != 1
}

// Remove tombstones text and drops its entry, if any.
// It reports whether an entry was dropped. Removing a tombstoned text is a no-op.
func (s *Store) Remove(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tombstones.Add(text) {
		return false
	}
	e, ok := s.byText[text]
	if !ok {
		return false
	}
	s.deleteLocked(e)
	return true
}

// Restore lifts the tombstone on text so it can be tracked again.
func (s *Store) Restore(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tombstones.Remove(text)
}

// Top returns the n highest-ranked entries (DefaultTop when n <= 0).
func (s *Store) Top(n int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		n = s.defaultTop
	}
	out := make([]Entry, 0, min(n, len(s.byText)))
	it := s.index.Iterator()
	for len(out) < n && it.Next() {
		out = append(out, it.Value().(Entry))
	}
	return out
}

// RefreshAll recomputes every score at the current time.
// A rescale follows when the refreshed total exceeds the threshold.
func (s *Store) RefreshAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	for _, old := range s.entriesLocked() {
		updated := old
		updated.Score = Score(old, now)
		if updated.Score == old.Score {
			continue
		}
		s.deleteLocked(old)
		s.insertLocked(updated)
	}

	if s.totalScore > s.threshold {
		s.rescaleLocked()
	}
}

// Rescale decays every frequency by the rescale factor, drops entries
// that reach zero and recomputes the aggregates.
func (s *Store) Rescale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rescaleLocked()
}

func (s *Store) rescaleLocked() {
	before := s.totalScore
	now := s.now().Unix()
	entries := s.entriesLocked()

	s.index.Clear()
	s.byText = make(map[string]Entry, len(entries))
	s.totalScore = 0

	dropped := 0
	for _, e := range entries {
		e.Frequency = decay(e.Frequency, s.factor)
		if e.Frequency < 1 {
			dropped++
			continue
		}
		e.Score = Score(e, now)
		s.insertLocked(e)
	}

	s.logger.Infow("Rescaled command scores",
		"before", before,
		logger.FieldTotalScore, s.totalScore,
		logger.FieldEntries, len(s.byText),
		"dropped", dropped)
}

// Get returns the entry for text.
func (s *Store) Get(text string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byText[text]
	return e, ok
}

// Len returns the number of tracked entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byText)
}

// TotalScore returns the sum of all entry scores.
func (s *Store) TotalScore() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalScore
}

// Entries returns every entry in rank order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked()
}

// Tombstoned reports whether text is tombstoned.
func (s *Store) Tombstoned(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tombstones.Contains(text)
}

// Tombstones returns the tombstoned texts, sorted.
func (s *Store) Tombstones() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tombstones.Sorted()
}

// SetThreshold changes the rescale threshold. It takes effect on the next insert.
func (s *Store) SetThreshold(threshold int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = threshold
}

// SetMinLength changes the single-word length filter for new entries.
func (s *Store) SetMinLength(minLength int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minLength = minLength
}

func (s *Store) entriesLocked() []Entry {
	out := make([]Entry, 0, len(s.byText))
	it := s.index.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Entry))
	}
	return out
}

// Apart from rescaleLocked's reset, insertLocked and deleteLocked are the
// only writers of index, byText and totalScore.
func (s *Store) insertLocked(e Entry) {
	s.index.Add(e)
	s.byText[e.Text] = e
	s.totalScore = satAdd(s.totalScore, e.Score)
}

func (s *Store) deleteLocked(e Entry) {
	s.index.Remove(e)
	delete(s.byText, e.Text)
	s.totalScore = satSub(s.totalScore, e.Score)
}
