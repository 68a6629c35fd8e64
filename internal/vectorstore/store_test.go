package vectorstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMeta(t *testing.T) {
	in := map[string]any{
		"source":      "doc1",
		"chunk_index": json.Number("3"),
		"score":       json.Number("0.25"),
		"nested":      map[string]any{"n": json.Number("-7")},
		"list":        []any{json.Number("1"), "x", true},
	}
	out := NormalizeMeta(in)
	assert.Equal(t, map[string]any{
		"source":      "doc1",
		"chunk_index": 3,
		"score":       0.25,
		"nested":      map[string]any{"n": -7},
		"list":        []any{1, "x", true},
	}, out)
	assert.Nil(t, NormalizeMeta(nil))
}
