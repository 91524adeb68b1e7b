package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/recordgraph/store"
)

// File keeps the record set as a msgpack snapshot on disk.
type File struct {
	path string
}

// NewFile returns a file adapter writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads and decodes the snapshot. A missing file yields nil, keeping
// the graph's initial records.
func (f *File) Load() ([]*store.Record, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: read snapshot: %w", err)
	}
	var maps []map[string]any
	if err := msgpack.Unmarshal(raw, &maps); err != nil {
		return nil, fmt.Errorf("persist: decode snapshot: %w", err)
	}
	return decodeMaps(maps)
}

// Save encodes the record set and replaces the snapshot.
func (f *File) Save(records []*store.Record) error {
	raw, err := msgpack.Marshal(encodeMaps(records))
	if err != nil {
		return fmt.Errorf("persist: encode snapshot: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		return fmt.Errorf("persist: write snapshot: %w", err)
	}
	return nil
}
