package persist

import (
	"database/sql"
	"os"
	"sync"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/alman/db"
	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/frecency"
	"github.com/teranos/alman/logger"
)

// SQLiteBackend keeps state in the commands and deleted_commands tables.
// The connection is opened on first use and reopened after Quarantine.
type SQLiteBackend struct {
	mu     sync.Mutex
	path   string
	conn   *sql.DB
	owned  bool
	logger *zap.SugaredLogger
}

// OpenSQLiteBackend returns a backend for the database file at path.
func OpenSQLiteBackend(path string, log *zap.SugaredLogger) (*SQLiteBackend, error) {
	if path == "" {
		return nil, errors.NewInvalidRequestError("sqlite path is empty")
	}
	return &SQLiteBackend{path: path, owned: true, logger: logger.OrNop(log)}, nil
}

// NewSQLiteBackendWithDB wraps an already migrated connection. Close leaves conn open.
func NewSQLiteBackendWithDB(conn *sql.DB, log *zap.SugaredLogger) *SQLiteBackend {
	return &SQLiteBackend{conn: conn, logger: logger.OrNop(log)}
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

func (b *SQLiteBackend) connLocked() (*sql.DB, error) {
	if b.conn != nil {
		return b.conn, nil
	}
	conn, err := db.OpenWithMigrations(b.path, b.logger)
	if err != nil {
		return nil, classify(err, b.path)
	}
	b.conn = conn
	return conn, nil
}

// Load reads every entry and tombstone.
func (b *SQLiteBackend) Load() (*frecency.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := b.connLocked()
	if err != nil {
		return nil, err
	}

	entries, err := loadEntries(conn)
	if err != nil {
		return nil, classify(err, b.path)
	}
	tombstones, err := loadTombstones(conn)
	if err != nil {
		return nil, classify(err, b.path)
	}

	b.logger.Debugw("Loaded SQLite state",
		logger.FieldPath, b.path,
		logger.FieldEntries, len(entries),
		"tombstones", len(tombstones))
	return &frecency.Snapshot{Entries: entries, Tombstones: tombstones}, nil
}

// Rows are closed before returning; single-connection pools would otherwise block.
func loadEntries(conn *sql.DB) ([]frecency.Entry, error) {
	rows, err := conn.Query(`SELECT command_text, length, number_of_words, frequency, last_access_time, score
		FROM commands ORDER BY score DESC, command_text ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "query commands")
	}
	defer rows.Close()

	var entries []frecency.Entry
	for rows.Next() {
		var e frecency.Entry
		if err := rows.Scan(&e.Text, &e.Length, &e.Words, &e.Frequency, &e.LastAccess, &e.Score); err != nil {
			return nil, errors.MarkCorrupt(err, "scan command row")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate commands")
	}
	return entries, nil
}

func loadTombstones(conn *sql.DB) ([]string, error) {
	rows, err := conn.Query(`SELECT command_text FROM deleted_commands ORDER BY command_text`)
	if err != nil {
		return nil, errors.Wrap(err, "query deleted commands")
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, errors.MarkCorrupt(err, "scan deleted command row")
		}
		texts = append(texts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate deleted commands")
	}
	return texts, nil
}

// Save replaces both tables in a single transaction.
func (b *SQLiteBackend) Save(snap *frecency.Snapshot) error {
	if snap == nil {
		snap = &frecency.Snapshot{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := b.connLocked()
	if err != nil {
		return err
	}

	tx, err := conn.Begin()
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	if err := saveTx(tx, snap); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit save")
	}

	b.logger.Debugw("Saved SQLite state",
		logger.FieldPath, b.path,
		logger.FieldEntries, len(snap.Entries))
	return nil
}

func saveTx(tx *sql.Tx, snap *frecency.Snapshot) error {
	if _, err := tx.Exec(`DELETE FROM commands`); err != nil {
		return errors.Wrap(err, "clear commands")
	}
	if _, err := tx.Exec(`DELETE FROM deleted_commands`); err != nil {
		return errors.Wrap(err, "clear deleted commands")
	}

	insert, err := tx.Prepare(`INSERT INTO commands
		(command_text, length, number_of_words, frequency, last_access_time, score)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare command insert")
	}
	defer insert.Close()
	for _, e := range snap.Entries {
		if _, err := insert.Exec(e.Text, e.Length, e.Words, e.Frequency, e.LastAccess, e.Score); err != nil {
			return errors.Wrapf(err, "insert command %q", e.Text)
		}
	}

	tomb, err := tx.Prepare(`INSERT INTO deleted_commands (command_text) VALUES (?)`)
	if err != nil {
		return errors.Wrap(err, "prepare deleted command insert")
	}
	defer tomb.Close()
	for _, text := range snap.Tombstones {
		if _, err := tomb.Exec(text); err != nil {
			return errors.Wrapf(err, "insert deleted command %q", text)
		}
	}
	return nil
}

// Quarantine closes the connection and renames the database file and its
// WAL companions to <file>.corrupt. The next Load or Save starts a new file.
func (b *SQLiteBackend) Quarantine() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.owned {
		return nil, errors.NewInvalidRequestError("cannot quarantine a borrowed connection")
	}
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}

	var moved []string
	for _, p := range []string{b.path, b.path + "-wal", b.path + "-shm"} {
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

// Close closes the connection if this backend opened it.
func (b *SQLiteBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil || !b.owned {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

// classify marks errors that mean the file is not a usable database.
func classify(err error, path string) error {
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrCorrupt || se.Code == sqlite3.ErrNotADB) {
		return errors.WithHintf(errors.MarkCorrupt(err, path),
			"alman keeps a copy as %s%s", path, CorruptSuffix)
	}
	return err
}
