// Package store keeps the reader's local state (history, bookmarks, theme and
// device id) in a persistent key-value store.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Keys of the persisted values
const (
	HistoryKey  = "novel_reading_history"
	BookmarkKey = "novel_bookmarks"
	ThemeKey    = "novel_theme"
	UserKey     = "novel_user"
)

// Store is a string key-value store. Get reports a missing or unreadable
// value as not found.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Drivers accepted by Open
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// DefaultDir is where local state lives when no directory is configured
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".novelreader"), nil
}

// Open opens the store for driver under dir. An empty dir uses DefaultDir.
func Open(driver, dir string) (Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	switch driver {
	case "", DriverFile:
		return NewFileStore(dir)
	case DriverSQLite:
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
		return OpenSQLite(filepath.Join(dir, "novelreader.db"))
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Close closes s when the backend holds resources
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
