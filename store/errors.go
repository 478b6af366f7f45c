package store

import (
	"strings"

	"github.com/teranos/qcfilter/errors"
)

// ErrDatabaseClosed is returned when the store is used after Close, which
// happens when an interrupted import races its own shutdown.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err is ErrDatabaseClosed or the driver's
// own closed-connection error, which arrives unwrapped.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// classify marks driver closed-connection errors so callers can use errors.Is.
func classify(err error, op string) error {
	wrapped := errors.Wrap(err, op)
	if IsDatabaseClosed(err) {
		return errors.Mark(wrapped, ErrDatabaseClosed)
	}
	return wrapped
}
