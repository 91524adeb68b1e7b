package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/syssam/recordgraph/store"
)

// SQLite keeps the record set in a single snapshot table of a SQLite
// database, one row per record with the flattened form stored as JSON.
type SQLite struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	pos  INTEGER PRIMARY KEY,
	type TEXT NOT NULL,
	id   TEXT NOT NULL,
	data TEXT NOT NULL
);
`

// OpenSQLite opens (creating if needed) the database at dsn and ensures
// the snapshot table exists.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("persist: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: init sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the snapshot in insertion order. An empty table yields nil,
// keeping the graph's initial records.
func (s *SQLite) Load() ([]*store.Record, error) {
	rows, err := s.db.Query(`SELECT data FROM records ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("persist: load sqlite snapshot: %w", err)
	}
	defer rows.Close()

	var maps []map[string]any
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("persist: scan snapshot row: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("persist: decode snapshot row: %w", err)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("persist: load sqlite snapshot: %w", err)
	}
	if len(maps) == 0 {
		return nil, nil
	}
	return decodeMaps(maps)
}

// Save rewrites the whole snapshot in one transaction.
func (s *SQLite) Save(records []*store.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("persist: save sqlite snapshot: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		tx.Rollback()
		return fmt.Errorf("persist: clear sqlite snapshot: %w", err)
	}
	for i, r := range records {
		data, err := json.Marshal(r.Map())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("persist: encode record %q: %w", r.ID(), err)
		}
		if _, err := tx.Exec(
			`INSERT INTO records (pos, type, id, data) VALUES (?, ?, ?, ?)`,
			i, r.Type(), r.ID(), string(data),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("persist: insert record %q: %w", r.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("persist: commit sqlite snapshot: %w", err)
	}
	return nil
}
