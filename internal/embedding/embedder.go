package embedding

import "context"

// Provider is an external embedding service: one vector per input text, in
// input order. Any error means the provider is unavailable for this call.
type Provider interface {
	Name() string
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// Source records which path produced an embedding.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Embedding is a resolved vector of the resolver's dimensionality.
type Embedding struct {
	Vector []float64
	Source Source
}
