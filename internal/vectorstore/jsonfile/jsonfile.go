// Package jsonfile persists an index snapshot as a human-readable JSON array
// of {id, text, meta, emb} objects.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"docindex/internal/domain"
	"docindex/internal/vectorstore"
)

// Persister reads and writes the JSON index format.
type Persister struct{}

var _ vectorstore.Persister = Persister{}

// New returns a JSON file persister.
func New() Persister { return Persister{} }

// Save writes recs to path, creating parent directories. The file is
// replaced atomically via a temporary sibling and rename.
func (Persister) Save(path string, recs []domain.Record) error {
	if recs == nil {
		recs = []domain.Record{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrPersistence, path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Load reads the records stored at path. A missing file is not an error.
func (Persister) Load(path string) ([]domain.Record, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	recs, err := Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", path, err)
	}
	return recs, true, nil
}

// Decode parses an index document. Anything other than a single JSON array
// of record objects is rejected as a whole.
func Decode(data []byte) ([]domain.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrMalformedIndex)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var recs []domain.Record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedIndex, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after array", domain.ErrMalformedIndex)
	}

	for i := range recs {
		recs[i].Meta = vectorstore.NormalizeMeta(recs[i].Meta)
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	return recs, nil
}
