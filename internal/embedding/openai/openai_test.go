package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyEnv = "DOCINDEX_TEST_OPENAI_KEY"

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

func writeEmbeddings(w http.ResponseWriter, items ...embeddingItem) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object": "list",
		"data":   items,
		"model":  "text-embedding-3-small",
		"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
	})
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": http.StatusText(status), "type": "server_error"},
	})
}

func newTestClient(t *testing.T, url string, retries int) *Client {
	t.Helper()
	t.Setenv(keyEnv, "test-key")
	c, err := NewClient(Config{BaseURL: url, APIKeyEnv: keyEnv, Model: "text-embedding-3-small", MaxRetries: retries})
	require.NoError(t, err)
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv(keyEnv, "")
	_, err := NewClient(Config{APIKeyEnv: keyEnv})
	require.Error(t, err)
	assert.Contains(t, err.Error(), keyEnv)
}

func TestClient_EmbedTexts(t *testing.T) {
	var mu sync.Mutex
	var gotAuth string
	var gotBody struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		mu.Unlock()
		// out of order on purpose
		writeEmbeddings(w,
			embeddingItem{Object: "embedding", Embedding: []float32{0.5, 0.25}, Index: 1},
			embeddingItem{Object: "embedding", Embedding: []float32{1, 0, -1}, Index: 0},
		)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	assert.Equal(t, "openai", c.Name())

	vecs, err := c.EmbedTexts(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, -1}, {0.5, 0.25}}, vecs)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, []string{"first", "second"}, gotBody.Input)
	assert.Equal(t, "text-embedding-3-small", gotBody.Model)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeError(w, http.StatusServiceUnavailable)
			return
		}
		writeEmbeddings(w, embeddingItem{Object: "embedding", Embedding: []float32{2}, Index: 0})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	vecs, err := c.EmbedTexts(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}}, vecs)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	_, err := c.EmbedTexts(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryAuthErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5)
	_, err := c.EmbedTexts(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ShapeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEmbeddings(w)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, -1)
	_, err := c.EmbedTexts(context.Background(), []string{"x"})
	assert.Error(t, err)
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, retryDelay(0))
	assert.Equal(t, 400*time.Millisecond, retryDelay(1))
	assert.Equal(t, 5*time.Second, retryDelay(10))
	assert.Equal(t, 5*time.Second, retryDelay(80))
}
