package frecency

import "github.com/teranos/alman/logger"

// Snapshot is a point-in-time copy of a store's persistent state.
type Snapshot struct {
	Entries    []Entry  // rank order
	Tombstones []string // sorted
}

// Snapshot copies the store's entries and tombstones.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Snapshot{
		Entries:    s.entriesLocked(),
		Tombstones: s.tombstones.Sorted(),
	}
}

// NewFromSnapshot builds a store from persisted state.
//
// Entries whose text is tombstoned, empty, duplicated or whose frequency
// is below one are dropped. Aggregates are recomputed from what remains;
// persisted scores are kept until the next refresh.
func NewFromSnapshot(snap *Snapshot, opts ...Option) *Store {
	s := NewStore(opts...)
	if snap == nil {
		return s
	}

	for _, t := range snap.Tombstones {
		if t != "" {
			s.tombstones.Add(t)
		}
	}

	dropped := 0
	for _, e := range snap.Entries {
		if e.Text == "" || e.Frequency < 1 || s.tombstones.Contains(e.Text) {
			dropped++
			continue
		}
		if _, dup := s.byText[e.Text]; dup {
			dropped++
			continue
		}
		s.insertLocked(e)
	}

	if dropped > 0 {
		s.logger.Infow("Dropped unusable persisted entries",
			"dropped", dropped,
			logger.FieldEntries, len(s.byText))
	}
	return s
}
