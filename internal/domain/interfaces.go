package domain

import "fmt"

// Meta keys written by the index builder for provenance.
const (
	MetaSource     = "source"
	MetaChunkIndex = "chunk_index"
)

// Document represents a single text document handed to the indexer.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is a contiguous substring of a document used for indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// ChunkID derives the globally unique id of the index-th chunk of a document.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s::chunk::%d", docID, index)
}

// Record is a stored chunk together with its metadata and embedding.
// The json tags define the persisted index format.
type Record struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Meta      map[string]any `json:"meta"`
	Embedding []float64      `json:"emb"`
}

// ScoredRecord is a record paired with its similarity score for a query.
type ScoredRecord struct {
	Score  float64
	Record Record
}

// SearchResult represents a matching chunk with its provenance.
type SearchResult struct {
	Score       float64 `json:"score"`
	ChunkID     string  `json:"chunk_id"`
	Text        string  `json:"text"`
	SourceDocID string  `json:"source_doc_id"`
	ChunkIndex  int     `json:"chunk_index"`
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// NewSearchResult flattens a scored record into a search result, reading
// provenance from the record metadata.
func NewSearchResult(sr ScoredRecord) SearchResult {
	res := SearchResult{
		Score:   sr.Score,
		ChunkID: sr.Record.ID,
		Text:    sr.Record.Text,
	}
	if v, ok := sr.Record.Meta[MetaSource].(string); ok {
		res.SourceDocID = v
	}
	switch v := sr.Record.Meta[MetaChunkIndex].(type) {
	case int:
		res.ChunkIndex = v
	case int64:
		res.ChunkIndex = int(v)
	case float64:
		res.ChunkIndex = int(v)
	}
	return res
}
