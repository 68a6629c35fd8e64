package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"docindex/internal/config"
	"docindex/internal/domain"
	"docindex/internal/embedding"
	"docindex/internal/logger"
	"docindex/internal/summarizer"
	"docindex/internal/vectorstore"
	"docindex/internal/vectorstore/jsonfile"
	"docindex/internal/vectorstore/memory"
	"docindex/internal/vectorstore/sqlite"
)

// Stats describes the currently loaded index.
type Stats struct {
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	Dim       int    `json:"dim"`
	Provider  string `json:"provider"`
	Path      string `json:"path"`
}

// RAGService owns the active index and answers queries against it.
type RAGService struct {
	cfg      *config.AppConfig
	resolver *embedding.Resolver
	builder  *IndexBuilder
	digester *summarizer.Digester

	mu     sync.RWMutex
	store  *memory.Store
	digest string
}

// NewPersister returns the snapshot backend named by backend.
func NewPersister(backend string) vectorstore.Persister {
	if backend == config.BackendSQLite {
		return sqlite.New()
	}
	return jsonfile.New()
}

// NewRAGService creates a service with an empty index. A nil resolver
// embeds everything deterministically.
func NewRAGService(cfg *config.AppConfig, resolver *embedding.Resolver) *RAGService {
	if resolver == nil {
		resolver = embedding.NewResolver(nil, cfg.Index.Dim)
	}
	opt := memory.WithPersister(NewPersister(cfg.Index.Backend))
	return &RAGService{
		cfg:      cfg,
		resolver: resolver,
		builder:  NewIndexBuilder(resolver, cfg.Index.Dim, opt),
		digester: summarizer.New(),
		store:    memory.New(resolver, cfg.Index.Dim, opt),
	}
}

// IngestFiles loads the documents named by paths and replaces the active
// index with a freshly built one.
func (s *RAGService) IngestFiles(ctx context.Context, paths []string) (string, error) {
	docs, err := LoadDocuments(paths)
	if err != nil {
		return "", err
	}
	logger.Section("Indexing")
	logger.Info("%d documents, chunk size %d, overlap %d, provider %s",
		len(docs), s.cfg.Chunker.ChunkSize, s.cfg.Chunker.Overlap, s.resolver.ProviderName())

	store, err := s.builder.Build(ctx, docs, s.cfg.Chunker.ChunkSize, s.cfg.Chunker.Overlap)
	if err != nil {
		return "", err
	}
	var corpus strings.Builder
	for _, d := range docs {
		corpus.WriteString(d.Content)
		corpus.WriteString("\n")
	}
	digest := s.digester.Digest(corpus.String(), summarizer.DefaultSentences)

	s.mu.Lock()
	s.store = store
	s.digest = digest
	s.mu.Unlock()

	return fmt.Sprintf("indexed %d chunks from %d documents (dim %d)", store.Len(), len(docs), store.Dim()), nil
}

// Query returns the topK chunks most similar to query. A non-positive topK
// uses the configured default.
func (s *RAGService) Query(query string, topK int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.cfg.Search.TopK
	}
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	scored, err := store.SimilaritySearch(query, topK)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, len(scored))
	for i, sr := range scored {
		results[i] = domain.NewSearchResult(sr)
	}
	return results, nil
}

// Persist writes the active index to the configured path.
func (s *RAGService) Persist() error {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if err := store.Persist(s.cfg.Index.Path); err != nil {
		return err
	}
	logger.Info("persisted %d records to %s", store.Len(), s.cfg.Index.Path)
	return nil
}

// Load replaces the active index with the snapshot at the configured path.
// A missing snapshot leaves the index empty.
func (s *RAGService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Load(s.cfg.Index.Path); err != nil {
		return err
	}
	texts := make([]string, 0, s.store.Len())
	for _, rec := range s.store.Records() {
		texts = append(texts, rec.Text)
	}
	s.digest = s.digester.Digest(strings.Join(texts, "\n"), summarizer.DefaultSentences)
	logger.Info("loaded %d records from %s", s.store.Len(), s.cfg.Index.Path)
	return nil
}

// Digest returns a short extractive summary of the indexed corpus.
func (s *RAGService) Digest() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.digest
}

// Stats reports the size of the active index.
func (s *RAGService) Stats() Stats {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	sources := map[string]struct{}{}
	recs := store.Records()
	for _, rec := range recs {
		if src, ok := rec.Meta[domain.MetaSource].(string); ok {
			sources[src] = struct{}{}
		}
	}
	return Stats{
		Documents: len(sources),
		Chunks:    len(recs),
		Dim:       store.Dim(),
		Provider:  s.resolver.ProviderName(),
		Path:      s.cfg.Index.Path,
	}
}
