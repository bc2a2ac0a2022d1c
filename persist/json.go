package persist

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/frecency"
	"github.com/teranos/alman/internal/util"
	"github.com/teranos/alman/logger"
)

// File names inside the data directory
const (
	DatabaseFile        = "command_database.json"
	DeletedCommandsFile = "deleted_commands.json"
)

type databaseRecord struct {
	CommandList       []frecency.Entry          `json:"command_list"`
	ReverseCommandMap map[string]frecency.Entry `json:"reverse_command_map"`
	TotalNumCommands  int64                     `json:"total_num_commands"`
	TotalScore        int64                     `json:"total_score"`
}

type deletedRecord struct {
	DeletedCommands []string `json:"deleted_commands"`
}

// JSONBackend keeps state in two pretty-printed JSON files.
type JSONBackend struct {
	dbPath      string
	deletedPath string
	logger      *zap.SugaredLogger
}

// NewJSONBackend stores files under dataDir. Nothing is touched until Load or Save.
func NewJSONBackend(dataDir string, log *zap.SugaredLogger) *JSONBackend {
	return &JSONBackend{
		dbPath:      filepath.Join(dataDir, DatabaseFile),
		deletedPath: filepath.Join(dataDir, DeletedCommandsFile),
		logger:      logger.OrNop(log),
	}
}

func (b *JSONBackend) Name() string { return "json" }

// Paths returns the database and tombstone file paths.
func (b *JSONBackend) Paths() (database, deleted string) {
	return b.dbPath, b.deletedPath
}

// Load reads both files. Missing files are empty state.
func (b *JSONBackend) Load() (*frecency.Snapshot, error) {
	var rec databaseRecord
	if err := readJSON(b.dbPath, &rec); err != nil {
		return nil, err
	}
	var del deletedRecord
	if err := readJSON(b.deletedPath, &del); err != nil {
		return nil, err
	}

	snap := &frecency.Snapshot{
		Entries:    reconcile(rec),
		Tombstones: del.DeletedCommands,
	}
	b.logger.Debugw("Loaded JSON state",
		logger.FieldPath, b.dbPath,
		logger.FieldEntries, len(snap.Entries),
		"tombstones", len(snap.Tombstones))
	return snap, nil
}

// reconcile picks the authoritative entry list: the text-keyed map when it
// has content, the list otherwise. The map key wins over the entry's own text.
func reconcile(rec databaseRecord) []frecency.Entry {
	if len(rec.ReverseCommandMap) == 0 {
		return rec.CommandList
	}
	entries := make([]frecency.Entry, 0, len(rec.ReverseCommandMap))
	for text, e := range rec.ReverseCommandMap {
		e.Text = text
		entries = append(entries, e)
	}
	return entries
}

// Save writes the database file, then the tombstone file, each atomically.
func (b *JSONBackend) Save(snap *frecency.Snapshot) error {
	if snap == nil {
		snap = &frecency.Snapshot{}
	}

	rec := databaseRecord{
		CommandList:       snap.Entries,
		ReverseCommandMap: make(map[string]frecency.Entry, len(snap.Entries)),
		TotalNumCommands:  int64(len(snap.Entries)),
	}
	if rec.CommandList == nil {
		rec.CommandList = []frecency.Entry{}
	}
	for _, e := range snap.Entries {
		rec.ReverseCommandMap[e.Text] = e
		rec.TotalScore += e.Score
	}
	if err := writeJSON(b.dbPath, rec); err != nil {
		return err
	}

	del := deletedRecord{DeletedCommands: snap.Tombstones}
	if del.DeletedCommands == nil {
		del.DeletedCommands = []string{}
	}
	if err := writeJSON(b.deletedPath, del); err != nil {
		return err
	}

	b.logger.Debugw("Saved JSON state",
		logger.FieldPath, b.dbPath,
		logger.FieldEntries, len(snap.Entries),
		logger.FieldTotalScore, rec.TotalScore)
	return nil
}

// Quarantine renames whichever state files exist to <file>.corrupt.
func (b *JSONBackend) Quarantine() ([]string, error) {
	var moved []string
	for _, p := range []string{b.dbPath, b.deletedPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		dst := p + CorruptSuffix
		if err := os.Rename(p, dst); err != nil {
			return moved, errors.Wrapf(err, "move %s aside", p)
		}
		moved = append(moved, dst)
	}
	return moved, nil
}

func (b *JSONBackend) Close() error { return nil }

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WithHintf(
			errors.MarkCorrupt(err, path),
			"the file can be removed or fixed by hand; alman keeps a copy as %s%s", filepath.Base(path), CorruptSuffix)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return util.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
