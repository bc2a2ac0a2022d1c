package db

import (
	"strings"

	"github.com/teranos/alman/errors"
)

// ErrDatabaseClosed is returned when operations are attempted on a closed database,
// e.g. a history watcher still flushing after Close.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed checks if an error indicates the database connection is closed.
// database/sql reports this with its own unexported error, hence the message check.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
