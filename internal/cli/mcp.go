package cli

import (
	"github.com/spf13/cobra"

	"docindex/internal/logger"
	"docindex/internal/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the index over the Model Context Protocol",
	Long: `Starts an MCP server exposing the similarity_search tool and the
docindex://stats resource for the persisted index.

By default the server speaks JSON-RPC over stdio. Use --http to serve
streamable HTTP instead.

Examples:
  docindex mcp
  docindex mcp --http :8080`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "listen address for streamable HTTP (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	svc, err := loadedService()
	if err != nil {
		return err
	}
	server, err := mcp.NewServer(svc, cfg.Search.TopK)
	if err != nil {
		return err
	}
	if mcpHTTPAddr != "" {
		logger.Info("MCP server listening on %s", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
