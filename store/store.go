package store

// Store is an ordered, process-local collection of records with a change
// event attached. All lookups are linear scans; the store keeps no indexes.
//
// A store is owned by a single logical caller. There is no locking, and
// listeners that mutate the store from inside a change notification are
// not supported.
type Store struct {
	records []*Record
	emitter Emitter
}

// New creates a store seeded with the given records. The store takes
// ownership of the slice.
func New(records []*Record) *Store {
	return &Store{records: records}
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// All returns the records in insertion order. The returned slice is shared;
// callers must not modify it.
func (s *Store) All() []*Record { return s.records }

// First returns the first record with the given type tag and identifier,
// or nil.
func (s *Store) First(typ, id string) *Record {
	for _, r := range s.records {
		if r.typ == typ && r.id == id {
			return r
		}
	}
	return nil
}

// ByID returns the first record with the given identifier regardless of
// type, or nil.
func (s *Store) ByID(id string) *Record {
	for _, r := range s.records {
		if r.id == id {
			return r
		}
	}
	return nil
}

// OfType returns all records with the given type tag in insertion order.
func (s *Store) OfType(typ string) []*Record {
	var out []*Record
	for _, r := range s.records {
		if r.typ == typ {
			out = append(out, r)
		}
	}
	return out
}

// ByIDs maps each identifier to its record of the given type, preserving
// input order. Identifiers with no record map to nil.
func (s *Store) ByIDs(typ string, ids []string) []*Record {
	out := make([]*Record, len(ids))
	for i, id := range ids {
		out[i] = s.First(typ, id)
	}
	return out
}

// Append adds a record to the end of the collection.
func (s *Store) Append(r *Record) {
	s.records = append(s.records, r)
}

// Remove removes the first record with the given identifier and returns it,
// or returns nil if no record matches. Dangling references held by other
// records are left as-is.
func (s *Store) Remove(id string) *Record {
	for i, r := range s.records {
		if r.id == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return r
		}
	}
	return nil
}

// Replace swaps the whole collection, keeping subscribers. Used when a
// persistence adapter restores a saved record set.
func (s *Store) Replace(records []*Record) {
	s.records = records
}

// Subscribe registers fn to run on every change notification and returns
// its unsubscribe function.
func (s *Store) Subscribe(fn func()) func() {
	return s.emitter.Subscribe(fn)
}

// Notify publishes one change notification to all subscribers.
func (s *Store) Notify() {
	s.emitter.Notify()
}
