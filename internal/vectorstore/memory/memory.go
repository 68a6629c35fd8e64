// Package memory implements the in-process vector store: an ordered record
// sequence ranked by brute-force dot product.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"docindex/internal/domain"
	"docindex/internal/embedding"
	"docindex/internal/embedding/hashing"
	"docindex/internal/logger"
	"docindex/internal/vectorstore"
	"docindex/internal/vectorstore/jsonfile"
)

// Store is an in-memory vector store. Insertion order is preserved and
// breaks ties between equal scores.
type Store struct {
	mu        sync.RWMutex
	dim       int
	resolver  *embedding.Resolver
	persister vectorstore.Persister
	records   []domain.Record
}

// Option configures a Store.
type Option func(*Store)

// WithPersister selects the snapshot backend used by Persist and Load.
func WithPersister(p vectorstore.Persister) Option {
	return func(s *Store) { s.persister = p }
}

// New creates an empty store of the given dimensionality. A nil resolver
// embeds every document with the hashing embedder.
func New(resolver *embedding.Resolver, dim int, opts ...Option) *Store {
	if dim <= 0 {
		dim = hashing.DefaultDim
	}
	if resolver == nil {
		resolver = embedding.NewResolver(nil, dim)
	}
	s := &Store{
		dim:       dim,
		resolver:  resolver,
		persister: jsonfile.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dim returns the embedding dimensionality of the store.
func (s *Store) Dim() int { return s.dim }

// AddDocument embeds text and appends a new record. Duplicate ids are kept.
// Provider failures never surface here; the record is embedded
// deterministically instead.
func (s *Store) AddDocument(ctx context.Context, id, text string, meta map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	emb := s.resolver.Resolve(ctx, text)
	if len(emb.Vector) != s.dim {
		return fmt.Errorf("%w: record %s has %d components, store dim is %d",
			domain.ErrDimensionMismatch, id, len(emb.Vector), s.dim)
	}
	logger.Debug("embedded %s via %s", id, emb.Source)

	rec := domain.Record{ID: id, Text: text, Meta: maps.Clone(meta), Embedding: emb.Vector}
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return nil
}

// SimilaritySearch ranks every record against query by raw dot product and
// returns at most topK results, highest first. A non-positive topK returns
// every record. The query is always embedded with the hashing embedder.
func (s *Store) SimilaritySearch(query string, topK int) ([]domain.ScoredRecord, error) {
	q := hashing.Embed(query, s.dim)

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]domain.ScoredRecord, 0, len(s.records))
	for _, rec := range s.records {
		if len(rec.Embedding) != len(q) {
			return nil, fmt.Errorf("%w: record %s has %d components, query has %d",
				domain.ErrDimensionMismatch, rec.ID, len(rec.Embedding), len(q))
		}
		scored = append(scored, domain.ScoredRecord{Score: dot(q, rec.Embedding), Record: cloneRecord(rec)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > 0 && topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}

// Persist writes the whole record sequence to path.
func (s *Store) Persist(path string) error {
	s.mu.RLock()
	recs := make([]domain.Record, len(s.records))
	copy(recs, s.records)
	s.mu.RUnlock()
	return s.persister.Save(path, recs)
}

// Load replaces the record sequence with the snapshot at path. A missing
// snapshot leaves the store untouched.
func (s *Store) Load(path string) error {
	recs, found, err := s.persister.Load(path)
	if err != nil {
		return err
	}
	if !found {
		logger.Debug("no index at %s, starting empty", path)
		return nil
	}
	for _, rec := range recs {
		if len(rec.Embedding) != s.dim {
			return fmt.Errorf("%w: %s: record %s has %d components, store dim is %d",
				domain.ErrDimensionMismatch, path, rec.ID, len(rec.Embedding), s.dim)
		}
	}
	s.mu.Lock()
	s.records = recs
	s.mu.Unlock()
	return nil
}

// Records returns a deep copy of the stored records in insertion order.
func (s *Store) Records() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = cloneRecord(rec)
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

func cloneRecord(rec domain.Record) domain.Record {
	rec.Meta = maps.Clone(rec.Meta)
	rec.Embedding = append([]float64(nil), rec.Embedding...)
	return rec
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
