package persist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/alman/config"
	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/frecency"
	almantest "github.com/teranos/alman/internal/testing"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func clock() time.Time { return fixedNow }

func sampleStore(t *testing.T) *frecency.Store {
	t.Helper()
	s := frecency.NewStore(
		frecency.WithClock(clock),
		frecency.WithThreshold(1_000_000),
		frecency.WithLogger(zaptest.NewLogger(t).Sugar()),
	)
	for i := 0; i < 4; i++ {
		s.Add("git status")
	}
	s.Add("docker compose up")
	s.Add("kubectl get pods")
	s.Add("kubectl get pods")
	s.Add("make build")
	s.Remove("rm -rf build")
	return s
}

func backends(t *testing.T) map[string]Backend {
	log := zaptest.NewLogger(t).Sugar()
	sqliteFile, err := OpenSQLiteBackend(filepath.Join(t.TempDir(), "alman.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { sqliteFile.Close() })

	return map[string]Backend{
		"json":          NewJSONBackend(t.TempDir(), log),
		"sqlite":        sqliteFile,
		"sqlite-memory": NewSQLiteBackendWithDB(almantest.CreateTestDB(t), log),
	}
}

func TestBackends_RoundTripPreservesRanking(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			original := sampleStore(t)
			require.NoError(t, b.Save(original.Snapshot()))

			snap, err := b.Load()
			require.NoError(t, err)
			loaded := frecency.NewFromSnapshot(snap, frecency.WithClock(clock), frecency.WithThreshold(1_000_000))

			assert.Equal(t, original.Top(10), loaded.Top(10))
			assert.Equal(t, original.TotalScore(), loaded.TotalScore())
			assert.Equal(t, []string{"rm -rf build"}, loaded.Tombstones())
		})
	}
}

func TestBackends_EmptyWhenNothingStored(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			snap, err := b.Load()
			require.NoError(t, err)
			assert.Empty(t, snap.Entries)
			assert.Empty(t, snap.Tombstones)
		})
	}
}

func TestBackends_SaveReplaces(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Save(sampleStore(t).Snapshot()))

			small := frecency.NewStore(frecency.WithClock(clock))
			small.Add("terraform plan")
			require.NoError(t, b.Save(small.Snapshot()))

			snap, err := b.Load()
			require.NoError(t, err)
			require.Len(t, snap.Entries, 1)
			assert.Equal(t, "terraform plan", snap.Entries[0].Text)
			assert.Empty(t, snap.Tombstones)
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendJSON, DataDir: t.TempDir()}}
	b, err := New(cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.Equal(t, "json", b.Name())

	cfg.Store.Backend = config.BackendSQLite
	b, err = New(cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "sqlite", b.Name())

	cfg.Store.Backend = "redis"
	_, err = New(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
