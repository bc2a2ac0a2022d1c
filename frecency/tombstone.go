package frecency

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// TombstoneSet holds command texts that ingestion must ignore.
// A text leaves the set only through Store.Restore.
type TombstoneSet struct {
	set *treeset.Set
}

// NewTombstoneSet returns a set seeded with texts.
func NewTombstoneSet(texts ...string) *TombstoneSet {
	ts := &TombstoneSet{set: treeset.NewWithStringComparator()}
	for _, t := range texts {
		ts.set.Add(t)
	}
	return ts
}

// Contains reports whether text is tombstoned.
func (ts *TombstoneSet) Contains(text string) bool {
	return ts.set.Contains(text)
}

// Add tombstones text, reporting whether it was newly added.
func (ts *TombstoneSet) Add(text string) bool {
	if ts.set.Contains(text) {
		return false
	}
	ts.set.Add(text)
	return true
}

// Remove drops text from the set, reporting whether it was present.
func (ts *TombstoneSet) Remove(text string) bool {
	if !ts.set.Contains(text) {
		return false
	}
	ts.set.Remove(text)
	return true
}

// Len returns the number of tombstoned texts.
func (ts *TombstoneSet) Len() int {
	return ts.set.Size()
}

// Sorted returns the tombstoned texts in ascending order.
func (ts *TombstoneSet) Sorted() []string {
	out := make([]string, 0, ts.set.Size())
	it := ts.set.Iterator()
	for it.Next() {
		out = append(out, it.Value().(string))
	}
	return out
}
