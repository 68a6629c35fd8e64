package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docindex/internal/service"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build [paths...]",
	Short: "Index documents and persist the index",
	Long: `Reads .txt, .md and .pdf files (directories are walked, glob patterns
expanded), chunks and embeds them, and writes the index to index.path.

With no paths, the sample documents directory is indexed.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "write the index here instead of index.path")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildOut != "" {
		cfg.Index.Path = buildOut
	}
	if len(args) == 0 {
		args = []string{service.DefaultSampleDir}
	}
	return buildAndPersist(cmd, args)
}

func buildAndPersist(cmd *cobra.Command, paths []string) error {
	svc := newService()
	summary, err := svc.IngestFiles(cmd.Context(), paths)
	if err != nil {
		return err
	}
	if err := svc.Persist(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s; persisted to %s\n", summary, cfg.Index.Path)
	return nil
}
