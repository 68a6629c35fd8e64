package chunker

import (
	"docindex/internal/domain"
)

const (
	// DefaultChunkSize is the default number of characters per chunk.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the default number of characters shared by neighbouring chunks.
	DefaultChunkOverlap = 200
)

// Split cuts text into windows of at most chunkSize characters, each window
// starting overlap characters before the end of the previous one. Offsets
// count Unicode code points, not bytes.
//
// A non-positive chunkSize returns the whole text as a single chunk. An
// overlap outside [0, chunkSize) falls back to adjacent, non-overlapping
// windows so the cursor always moves forward.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	length := len(runes)
	var chunks []string
	start := 0
	for start < length {
		end := start + chunkSize
		if end > length {
			end = length
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == length {
			break
		}
		if overlap >= 0 && overlap < chunkSize {
			start = end - overlap
		} else {
			start = end
		}
	}
	return chunks
}

// CharChunker splits documents into fixed-size, overlapping character windows.
type CharChunker struct {
	chunkSize int
	overlap   int
}

func NewCharChunker(chunkSize, overlap int) *CharChunker {
	return &CharChunker{chunkSize: chunkSize, overlap: overlap}
}

func (c *CharChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	texts := Split(document.Content, c.chunkSize, c.overlap)
	chunks := make([]domain.Chunk, 0, len(texts))
	for _, text := range texts {
		// chunk_size <= 0 on an empty document yields one empty window
		if text == "" {
			continue
		}
		idx := len(chunks)
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    domain.ChunkID(document.ID, idx),
			Text:       text,
			Index:      idx,
		})
	}
	return chunks, nil
}
