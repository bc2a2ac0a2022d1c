// Package persist saves and loads frecency state.
//
// Two backends share one contract: the JSON backend writes the two
// record files alman has always used, the SQLite backend keeps the same
// data in tables. Either returns errors marked errors.ErrCorruptState when
// what is on disk cannot be read back.
package persist

import (
	"go.uber.org/zap"

	"github.com/teranos/alman/config"
	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/frecency"
	"github.com/teranos/alman/logger"
)

// Backend stores frecency snapshots.
type Backend interface {
	// Load returns the persisted snapshot; an empty one when nothing is stored yet.
	Load() (*frecency.Snapshot, error)
	// Save replaces the persisted state with snap.
	Save(snap *frecency.Snapshot) error
	// Quarantine moves unreadable state aside so a fresh store can be saved,
	// returning where it went.
	Quarantine() ([]string, error)
	Name() string
	Close() error
}

// CorruptSuffix is appended to state files moved aside by Quarantine.
const CorruptSuffix = ".corrupt"

// New opens the backend selected by cfg.Store.Backend.
func New(cfg *config.Config, log *zap.SugaredLogger) (Backend, error) {
	if log == nil {
		log = logger.ComponentLogger("persist")
	}
	switch cfg.Store.Backend {
	case config.BackendJSON, "":
		return NewJSONBackend(cfg.DataDir(), log), nil
	case config.BackendSQLite:
		return OpenSQLiteBackend(cfg.SQLitePath(), log)
	}
	return nil, errors.NewInvalidRequestError("unknown store backend %q", cfg.Store.Backend)
}
