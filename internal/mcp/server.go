// Package mcp serves the index to MCP clients.
package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docindex/internal/domain"
	"docindex/internal/service"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Index is what the server needs from the RAG service.
type Index interface {
	Query(query string, topK int) ([]domain.SearchResult, error)
	Stats() service.Stats
}

// Server is the MCP server for docindex.
type Server struct {
	index       Index
	defaultTopK int
	server      *mcp.Server
}

// NewServer creates a server exposing index. defaultTopK applies when a
// tool call omits top_k.
func NewServer(index Index, defaultTopK int) (*Server, error) {
	if index == nil {
		return nil, errors.New("mcp: index is required")
	}
	s := &Server{
		index:       index,
		defaultTopK: defaultTopK,
		server:      mcp.NewServer(&mcp.Implementation{Name: "docindex", Version: Version}, nil),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
