package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"docindex/internal/domain"
	"docindex/internal/embedding/hashing"
	"docindex/internal/logger"
)

// ProviderResult is the outcome of a single provider call.
type ProviderResult struct {
	Vector []float64
	Err    error
}

// Resolver produces insertion-time embeddings: provider output when it is
// available and well formed, the hashing embedder otherwise. Every vector it
// returns has exactly Dim() components.
type Resolver struct {
	provider Provider
	dim      int
	warned   atomic.Bool
}

// NewResolver creates a resolver. A nil provider means every embedding comes
// from the hashing embedder. A non-positive dim selects hashing.DefaultDim.
func NewResolver(provider Provider, dim int) *Resolver {
	if dim <= 0 {
		dim = hashing.DefaultDim
	}
	return &Resolver{provider: provider, dim: dim}
}

// Dim returns the dimensionality of resolved vectors.
func (r *Resolver) Dim() int { return r.dim }

// ProviderName returns the configured provider name, or "none".
func (r *Resolver) ProviderName() string {
	if r.provider == nil {
		return "none"
	}
	return r.provider.Name()
}

// Resolve embeds text. It never fails: provider errors are logged and
// answered with the deterministic embedding.
func (r *Resolver) Resolve(ctx context.Context, text string) Embedding {
	res := r.callProvider(ctx, text)
	if res.Err == nil {
		return Embedding{Vector: Fit(res.Vector, r.dim), Source: SourceProvider}
	}
	if r.provider != nil && r.warned.CompareAndSwap(false, true) {
		logger.Warn("%v; using deterministic embeddings", res.Err)
	} else {
		logger.Debug("%v", res.Err)
	}
	return Embedding{Vector: hashing.Embed(text, r.dim), Source: SourceFallback}
}

func (r *Resolver) callProvider(ctx context.Context, text string) ProviderResult {
	if r.provider == nil {
		return ProviderResult{Err: fmt.Errorf("%w: none configured", domain.ErrProviderUnavailable)}
	}
	vecs, err := r.provider.EmbedTexts(ctx, []string{text})
	if err != nil {
		return ProviderResult{Err: fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, r.provider.Name(), err)}
	}
	if len(vecs) == 0 {
		return ProviderResult{Err: fmt.Errorf("%w: %s returned no vectors", domain.ErrProviderUnavailable, r.provider.Name())}
	}
	if err := checkFinite(vecs[0]); err != nil {
		return ProviderResult{Err: fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, r.provider.Name(), err)}
	}
	return ProviderResult{Vector: vecs[0]}
}

var errNonFinite = errors.New("non-finite component")

func checkFinite(v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w at %d", errNonFinite, i)
		}
	}
	return nil
}

// Fit reconciles v to dim components: longer vectors are truncated, shorter
// ones are right-padded with zeros. The result never aliases v.
func Fit(v []float64, dim int) []float64 {
	out := make([]float64, dim)
	copy(out, v)
	return out
}
