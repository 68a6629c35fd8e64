// Package sqlite stores index snapshots in a SQLite database using the pure
// Go modernc.org/sqlite driver.
package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"docindex/internal/domain"
	"docindex/internal/vectorstore"
	"docindex/internal/vectorstore/sqlite/migrations"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Persister keeps one snapshot per database file in the records table.
type Persister struct{}

var _ vectorstore.Persister = Persister{}

// New returns a SQLite persister.
func New() Persister { return Persister{} }

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// migrate runs all pending up migrations in version order.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Save replaces the stored snapshot with recs in a single transaction.
func (Persister) Save(path string, recs []domain.Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	db, err := open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("%w: clear: %v", domain.ErrPersistence, err)
	}
	stmt, err := tx.Prepare("INSERT INTO records (seq, id, text, meta, emb) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		metaJSON, merr := json.Marshal(rec.Meta)
		if merr != nil {
			return fmt.Errorf("%w: marshalling meta of %s: %v", domain.ErrPersistence, rec.ID, merr)
		}
		emb := rec.Embedding
		if emb == nil {
			emb = []float64{}
		}
		embJSON, merr := json.Marshal(emb)
		if merr != nil {
			return fmt.Errorf("%w: marshalling embedding of %s: %v", domain.ErrPersistence, rec.ID, merr)
		}
		if _, err = stmt.Exec(i, rec.ID, rec.Text, string(metaJSON), string(embJSON)); err != nil {
			return fmt.Errorf("%w: insert %s: %v", domain.ErrPersistence, rec.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Load returns the stored snapshot in insertion order. A missing database
// file is not an error.
func (Persister) Load(path string) ([]domain.Record, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	db, err := open(path)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrMalformedIndex, err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT id, text, meta, emb FROM records ORDER BY seq")
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrMalformedIndex, err)
	}
	defer rows.Close()

	recs := []domain.Record{}
	for rows.Next() {
		var (
			rec      domain.Record
			metaJSON string
			embJSON  string
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &metaJSON, &embJSON); err != nil {
			return nil, true, fmt.Errorf("%w: %v", domain.ErrMalformedIndex, err)
		}
		if metaJSON != "" && metaJSON != jsonNull {
			dec := json.NewDecoder(bytes.NewReader([]byte(metaJSON)))
			dec.UseNumber()
			if err := dec.Decode(&rec.Meta); err != nil {
				return nil, true, fmt.Errorf("%w: meta of %s: %v", domain.ErrMalformedIndex, rec.ID, err)
			}
			rec.Meta = vectorstore.NormalizeMeta(rec.Meta)
		}
		if err := json.Unmarshal([]byte(embJSON), &rec.Embedding); err != nil {
			return nil, true, fmt.Errorf("%w: embedding of %s: %v", domain.ErrMalformedIndex, rec.ID, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return recs, true, nil
}
