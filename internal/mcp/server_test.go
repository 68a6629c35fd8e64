package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docindex/internal/domain"
	"docindex/internal/service"
)

type stubIndex struct {
	gotQuery string
	gotTopK  int
	results  []domain.SearchResult
	err      error
}

func (s *stubIndex) Query(query string, topK int) ([]domain.SearchResult, error) {
	s.gotQuery, s.gotTopK = query, topK
	return s.results, s.err
}

func (s *stubIndex) Stats() service.Stats {
	return service.Stats{Documents: 2, Chunks: 3, Dim: 128, Provider: "none", Path: "data/index.json"}
}

func TestNewServer_RequiresIndex(t *testing.T) {
	_, err := NewServer(nil, 5)
	assert.Error(t, err)
}

func TestHandleSearch(t *testing.T) {
	idx := &stubIndex{results: []domain.SearchResult{
		{Score: 0.8, ChunkID: "faq::chunk::0", Text: "PAY-502", SourceDocID: "faq", ChunkIndex: 0},
	}}
	s, err := NewServer(idx, 5)
	require.NoError(t, err)

	res, out, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "timeout", TopK: 2})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "timeout", idx.gotQuery)
	assert.Equal(t, 2, idx.gotTopK)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, idx.results, out.Results)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[{"score":0.8,"chunk_id":"faq::chunk::0","text":"PAY-502","source_doc_id":"faq","chunk_index":0}],"count":1}`, string(data))
}

func TestHandleSearch_DefaultTopKAndEmpty(t *testing.T) {
	idx := &stubIndex{}
	s, err := NewServer(idx, 7)
	require.NoError(t, err)

	_, out, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, 7, idx.gotTopK)
	assert.NotNil(t, out.Results)
	assert.Equal(t, 0, out.Count)
}

func TestHandleSearch_Error(t *testing.T) {
	s, err := NewServer(&stubIndex{err: errors.New("index unavailable")}, 5)
	require.NoError(t, err)

	_, _, err = s.handleSearch(context.Background(), nil, SearchInput{Query: "x"})
	assert.EqualError(t, err, "index unavailable")
}

func TestHandleStatsResource(t *testing.T) {
	s, err := NewServer(&stubIndex{}, 5)
	require.NoError(t, err)

	res, err := s.handleStatsResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: statsURI},
	})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, statsURI, res.Contents[0].URI)
	assert.JSONEq(t, `{"documents":2,"chunks":3,"dim":128,"provider":"none","path":"data/index.json"}`, res.Contents[0].Text)
}
