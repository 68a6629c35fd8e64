package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docindex/internal/domain"
)

const statsURI = "docindex://stats"

// SearchInput is the input schema for the similarity_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"free text to match against indexed chunks"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return"`
}

// SearchOutput is the output schema for the similarity_search tool.
type SearchOutput struct {
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "similarity_search",
		Description: "Rank indexed document chunks by similarity to a query, with source document and chunk position",
	}, s.handleSearch)
}

func (s *Server) handleSearch(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}
	results, err := s.index.Query(input.Query, topK)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "stats",
		Description: "Size, dimensionality and embedding provider of the loaded index",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

func (s *Server) handleStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(s.index.Stats())
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
