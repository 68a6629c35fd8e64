// Package vectorstore defines how a vector index snapshot is persisted.
package vectorstore

import (
	"encoding/json"
	"math"

	"docindex/internal/domain"
)

// Persister saves and restores a whole ordered record sequence.
// Load reports found == false when nothing exists at path.
type Persister interface {
	Save(path string, recs []domain.Record) error
	Load(path string) (recs []domain.Record, found bool, err error)
}

// NormalizeMeta converts json.Number values produced by a UseNumber decoder
// into int when integral and float64 otherwise, recursing into nested maps
// and lists.
func NormalizeMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		return NormalizeMeta(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
