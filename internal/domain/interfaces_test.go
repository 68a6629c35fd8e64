package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc1::chunk::0", ChunkID("doc1", 0))
	assert.Equal(t, "runbook_001.txt::chunk::12", ChunkID("runbook_001.txt", 12))
}

func TestNewSearchResult(t *testing.T) {
	tests := []struct {
		name  string
		meta  map[string]any
		doc   string
		index int
	}{
		{"int index", map[string]any{MetaSource: "a", MetaChunkIndex: 3}, "a", 3},
		{"int64 index", map[string]any{MetaSource: "b", MetaChunkIndex: int64(4)}, "b", 4},
		{"float index", map[string]any{MetaSource: "c", MetaChunkIndex: 5.0}, "c", 5},
		{"missing meta", nil, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewSearchResult(ScoredRecord{
				Score:  0.5,
				Record: Record{ID: "x::chunk::1", Text: "body", Meta: tt.meta},
			})
			assert.Equal(t, 0.5, res.Score)
			assert.Equal(t, "x::chunk::1", res.ChunkID)
			assert.Equal(t, "body", res.Text)
			assert.Equal(t, tt.doc, res.SourceDocID)
			assert.Equal(t, tt.index, res.ChunkIndex)
		})
	}
}
