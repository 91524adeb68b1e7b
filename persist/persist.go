// Package persist defines the persistence adapter contract and three
// reference adapters: an in-memory base64 fragment blob, a msgpack
// snapshot file and a SQLite-backed snapshot.
//
// An adapter is invoked twice per graph lifecycle: Load once at
// construction, where a non-nil record set replaces the initial records,
// and Save once per change notification thereafter.
package persist

import (
	"errors"
	"fmt"

	"github.com/syssam/recordgraph/store"
)

// ErrUnknownMode is returned by Open for an unrecognized persistence mode.
// It is a configuration error: graph construction fails.
var ErrUnknownMode = errors.New("persist: unknown mode")

// Adapter loads and saves whole record sets.
type Adapter interface {
	// Load returns the saved record set, or nil if nothing was saved yet.
	Load() ([]*store.Record, error)

	// Save replaces the saved record set.
	Save(records []*store.Record) error
}

// Open returns the adapter named by mode:
//
//	"fragment"  in-memory base64 blob (dsn ignored)
//	"file"      msgpack snapshot at dsn
//	"sqlite"    SQLite database at dsn
func Open(mode, dsn string) (Adapter, error) {
	switch mode {
	case "fragment":
		return NewFragment(), nil
	case "file":
		return NewFile(dsn), nil
	case "sqlite":
		return OpenSQLite(dsn)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// decodeMaps rebuilds records from their flattened wire form, rejecting
// any entry that fails the type/id shape check.
func decodeMaps(maps []map[string]any) ([]*store.Record, error) {
	records := make([]*store.Record, 0, len(maps))
	for _, m := range maps {
		r, err := store.FromMap(m)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// encodeMaps flattens records into their wire form.
func encodeMaps(records []*store.Record) []map[string]any {
	maps := make([]map[string]any, len(records))
	for i, r := range records {
		maps[i] = r.Map()
	}
	return maps
}
