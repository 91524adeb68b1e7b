package persist

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/syssam/recordgraph/store"
)

// Fragment keeps the record set as a base64-encoded JSON blob, the shape
// used to carry state in a page URL fragment. The blob is exposed so
// callers can place it wherever they need; a blob restored from the
// outside is not trusted and every decoded record passes the type/id
// shape check before use.
type Fragment struct {
	blob string
}

// NewFragment returns an empty fragment adapter.
func NewFragment() *Fragment {
	return &Fragment{}
}

// RestoreFragment returns a fragment adapter seeded with a previously
// exported blob.
func RestoreFragment(blob string) *Fragment {
	return &Fragment{blob: blob}
}

// Blob returns the current encoded record set. Empty until the first Save.
func (f *Fragment) Blob() string { return f.blob }

// Load decodes the blob. An empty blob yields nil, keeping the graph's
// initial records.
func (f *Fragment) Load() ([]*store.Record, error) {
	if f.blob == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(f.blob)
	if err != nil {
		return nil, fmt.Errorf("persist: decode fragment: %w", err)
	}
	var maps []map[string]any
	if err := json.Unmarshal(raw, &maps); err != nil {
		return nil, fmt.Errorf("persist: decode fragment: %w", err)
	}
	return decodeMaps(maps)
}

// Save encodes the record set into the blob.
func (f *Fragment) Save(records []*store.Record) error {
	raw, err := json.Marshal(encodeMaps(records))
	if err != nil {
		return fmt.Errorf("persist: encode fragment: %w", err)
	}
	f.blob = base64.StdEncoding.EncodeToString(raw)
	return nil
}
