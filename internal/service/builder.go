package service

import (
	"context"

	"docindex/internal/chunker"
	"docindex/internal/domain"
	"docindex/internal/embedding"
	"docindex/internal/logger"
	"docindex/internal/vectorstore/memory"
)

// IndexBuilder turns a batch of documents into a populated vector store.
type IndexBuilder struct {
	resolver *embedding.Resolver
	dim      int
	opts     []memory.Option
}

// NewIndexBuilder creates a builder whose stores embed with resolver at dim
// components. opts are applied to every store it constructs.
func NewIndexBuilder(resolver *embedding.Resolver, dim int, opts ...memory.Option) *IndexBuilder {
	return &IndexBuilder{resolver: resolver, dim: dim, opts: opts}
}

// Build chunks every document and adds the chunks to a fresh store, strictly
// in document order and then chunk order. Each record carries its source
// document id and chunk index as metadata. The store is not persisted.
func (b *IndexBuilder) Build(ctx context.Context, docs []domain.Document, chunkSize, overlap int) (*memory.Store, error) {
	store := memory.New(b.resolver, b.dim, b.opts...)
	ch := chunker.NewCharChunker(chunkSize, overlap)
	for _, doc := range docs {
		chunks, err := ch.Chunk(doc)
		if err != nil {
			return nil, err
		}
		logger.Debug("%s: %d chunks", doc.ID, len(chunks))
		for _, c := range chunks {
			meta := map[string]any{
				domain.MetaSource:     doc.ID,
				domain.MetaChunkIndex: c.Index,
			}
			if err := store.AddDocument(ctx, c.ChunkID, c.Text, meta); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}
