package hashing

import (
	"crypto/sha256"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x * x)
	}
	return math.Sqrt(sum)
}

func TestEmbed_Deterministic(t *testing.T) {
	v1 := Embed("hello world", 128)
	v2 := Embed("hello world", 128)

	require.Len(t, v1, 128)
	assert.Equal(t, v1, v2)
}

func TestEmbed_UnitNorm(t *testing.T) {
	for _, text := range []string{"hello world", "a", "Payment service failing intermittently", "ünïcode ✓"} {
		for _, dim := range []int{1, 7, 32, 128, 300} {
			assert.InDelta(t, 1.0, norm(Embed(text, dim)), 1e-9, "text=%q dim=%d", text, dim)
		}
	}
}

func TestEmbed_MatchesDigestMapping(t *testing.T) {
	text := "hello world"
	dim := 70
	digest := sha256.Sum256([]byte(text))

	raw := make([]float64, dim)
	for i := range raw {
		raw[i] = (float64(digest[i%32])/255.0)*2 - 1
	}
	n := norm(raw)

	got := Embed(text, dim)
	for i := range got {
		assert.Equal(t, raw[i]/n, got[i], "component %d", i)
	}
	// the digest repeats with period 32
	assert.Equal(t, got[0], got[32])
	assert.Equal(t, got[5], got[69])
}

func TestEmbed_DifferentTextsDiffer(t *testing.T) {
	assert.NotEqual(t, Embed("short", 16), Embed("a much longer string", 16))
}

func TestEmbed_NonPositiveDim(t *testing.T) {
	assert.Nil(t, Embed("x", 0))
	assert.Nil(t, Embed("x", -3))
}

func TestEmbedder(t *testing.T) {
	e := NewEmbedder(0)
	assert.Equal(t, DefaultDim, e.Dimension())
	assert.Equal(t, "sha256", e.Name())
	assert.Equal(t, Embed("q", DefaultDim), e.Embed("q"))

	assert.Len(t, NewEmbedder(64).Embed("q"), 64)
}
