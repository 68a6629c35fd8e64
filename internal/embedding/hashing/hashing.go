// Package hashing implements the deterministic fallback embedder: a unit
// vector derived from the SHA-256 digest of the text.
package hashing

import (
	"crypto/sha256"
	"math"
)

// DefaultDim is the default embedding dimensionality.
const DefaultDim = 128

// Embed expands the SHA-256 digest of text into dim values in [-1, 1] and
// scales the result to unit Euclidean norm. Byte i%32 of the digest feeds
// component i, mapped linearly by (b/255)*2 - 1. A zero norm leaves the
// vector unchanged.
//
// The output is reproducible bit for bit across runs and platforms.
func Embed(text string, dim int) []float64 {
	if dim <= 0 {
		return nil
	}
	digest := sha256.Sum256([]byte(text))
	vec := make([]float64, dim)
	for i := range vec {
		b := digest[i%len(digest)]
		vec[i] = (float64(b)/255.0)*2 - 1
	}
	sum := 0.0
	for _, v := range vec {
		// explicit conversion keeps the compiler from fusing into an FMA
		sum += float64(v * v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1.0
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Embedder is a fixed-dimension wrapper around Embed.
type Embedder struct {
	dim int
}

// NewEmbedder creates a hashing embedder. A non-positive dim selects DefaultDim.
func NewEmbedder(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Embedder{dim: dim}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "sha256" }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dim }

// Embed computes the deterministic embedding for text.
func (e *Embedder) Embed(text string) []float64 { return Embed(text, e.dim) }
