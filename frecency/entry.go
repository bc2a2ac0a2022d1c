package frecency

import "strings"

// Entry is one tracked command line and its frecency statistics.
// Score is derived from the other fields; only the Store assigns it.
type Entry struct {
	Text       string `json:"command_text"`
	Length     int64  `json:"length"`          // sum of word lengths in bytes
	Words      int    `json:"number_of_words"` // whitespace-separated words
	Frequency  int64  `json:"frequency"`
	LastAccess int64  `json:"last_access_time"` // unix seconds
	Score      int64  `json:"score"`
}

// NewEntry builds an unscored entry for text, first seen at now.
func NewEntry(text string, now int64) Entry {
	words := strings.Fields(text)
	var length int64
	for _, w := range words {
		length = satAdd(length, int64(len(w)))
	}
	return Entry{
		Text:       text,
		Length:     length,
		Words:      len(words),
		Frequency:  1,
		LastAccess: now,
	}
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// compareEntries orders by score descending, then text ascending.
// Text is unique in a store, so the order is total.
func compareEntries(a, b interface{}) int {
	ea := a.(Entry)
	eb := b.(Entry)
	switch {
	case ea.Score > eb.Score:
		return -1
	case ea.Score < eb.Score:
		return 1
	}
	return strings.Compare(ea.Text, eb.Text)
}
