package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/alman/frecency"
)

// recorder captures Add calls in order
type recorder struct {
	added []string
}

func (r *recorder) Add(text string) { r.added = append(r.added, text) }

func TestInsert_AddsEveryPrefixOnce(t *testing.T) {
	r := &recorder{}
	p := New(r, WithSelfName("alman"), WithLogger(zaptest.NewLogger(t).Sugar()))

	require.True(t, p.Insert("  git   add \t . "))
	assert.Equal(t, []string{"git", "git add", "git add ."}, r.added)
}

func TestInsert_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"whitespace only", " \t\n "},
		{"own invocation", "alman suggest"},
		{"own invocation with padding", "   alman   record -- ls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			p := New(r, WithSelfName("alman"))
			assert.False(t, p.Insert(tt.line))
			assert.Empty(t, r.added)
		})
	}
}

func TestInsert_SelfNameOnlyMatchesFirstWord(t *testing.T) {
	r := &recorder{}
	p := New(r, WithSelfName("alman"))

	assert.True(t, p.Insert("which alman"))
	assert.True(t, p.Insert("almanac --help"))
	assert.Equal(t, []string{"which", "which alman", "almanac", "almanac --help"}, r.added)
}

func TestInsertAll(t *testing.T) {
	r := &recorder{}
	p := New(r, WithSelfName("alman"))

	n := p.InsertAll([]string{"ls -la", "", "alman top", "docker ps"})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"ls", "ls -la", "docker", "docker ps"}, r.added)
}

func TestSelfName(t *testing.T) {
	assert.NotEmpty(t, SelfName())
}

// Three runs of "git add ." leave every prefix at frequency three.
func TestInsert_RepeatedLineFrequencies(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := frecency.NewStore(
		frecency.WithClock(func() time.Time { return now }),
		frecency.WithMinLength(0),
	)
	p := New(store, WithSelfName("alman"))

	for i := 0; i < 3; i++ {
		require.True(t, p.Insert("git add ."))
	}

	for _, text := range []string{"git", "git add", "git add ."} {
		e, ok := store.Get(text)
		require.True(t, ok, text)
		assert.EqualValues(t, 3, e.Frequency, text)
	}
	assert.Equal(t, 3, store.Len())
}

func TestInsert_DefaultFilterSkipsShortToolName(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := frecency.NewStore(frecency.WithClock(func() time.Time { return now }))
	p := New(store, WithSelfName("alman"))

	for i := 0; i < 3; i++ {
		p.Insert("git add .")
	}

	_, ok := store.Get("git")
	assert.False(t, ok, "single short words are not tracked by default")
	e, ok := store.Get("git add .")
	require.True(t, ok)
	assert.EqualValues(t, 3, e.Frequency)
}
