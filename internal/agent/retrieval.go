package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"docindex/internal/domain"
)

// Searcher is the query interface of the index.
type Searcher interface {
	Query(query string, topK int) ([]domain.SearchResult, error)
}

// Retrieval returns the top-k chunks for payload["query"], with provenance.
type Retrieval struct {
	searcher Searcher
	topK     int
}

// NewRetrieval creates a retrieval agent. defaultTopK applies when the
// payload has no top_k.
func NewRetrieval(s Searcher, defaultTopK int) *Retrieval {
	return &Retrieval{searcher: s, topK: defaultTopK}
}

func (r *Retrieval) Name() string { return "retrieval" }

func (r *Retrieval) Run(ctx context.Context, payload Payload) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, _ := payload["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: payload needs a non-empty \"query\" string", domain.ErrInvalidInput)
	}
	topK, err := intField(payload, "top_k", r.topK)
	if err != nil {
		return nil, err
	}
	results, err := r.searcher.Query(query, topK)
	if err != nil {
		return nil, err
	}
	return Result{"results": results, "run_id": uuid.NewString()}, nil
}

func intField(p Payload, key string, def int) (int, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", domain.ErrInvalidInput, key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", domain.ErrInvalidInput, key, v)
	}
}
