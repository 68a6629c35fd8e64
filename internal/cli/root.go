// Package cli implements the docindex command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docindex/internal/config"
	"docindex/internal/embedding"
	"docindex/internal/logger"
	"docindex/internal/service"
)

var version = "dev"

var (
	cfgFile string
	verbose bool

	// cfg is loaded before any subcommand runs.
	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "docindex",
	Short: "Chunk, embed and search text documents",
	Long: `docindex splits documents into overlapping character chunks, embeds each
chunk (an external provider when configured, a deterministic SHA-256 embedding
otherwise) and keeps them in a persistable vector index for similarity search.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or TOML; default ./config.yaml or ~/.config/docindex/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	var (
		path string
		err  error
	)
	if cfgFile != "" {
		path = cfgFile
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("config: %s", path)
	return nil
}

// newService wires the configured provider into a service with an empty
// index. A provider that cannot be constructed is reported once and
// replaced by deterministic embeddings.
func newService() *service.RAGService {
	provider, err := embedding.NewProvider(cfg.Embedder)
	if err != nil {
		logger.Warn("embedder %s unavailable: %v; using deterministic embeddings", cfg.Embedder.Type, err)
		provider = nil
	}
	return service.NewRAGService(cfg, embedding.NewResolver(provider, cfg.Index.Dim))
}

// loadedService returns a service holding the persisted index.
func loadedService() (*service.RAGService, error) {
	svc := newService()
	if err := svc.Load(); err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	return svc, nil
}
