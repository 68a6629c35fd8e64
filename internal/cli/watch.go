package cli

import (
	"context"

	"github.com/spf13/cobra"

	"docindex/internal/service"
)

var watchDebounce = service.DefaultDebounce

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild the index whenever documents in dir change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", service.DefaultDebounce, "quiet period before rebuilding")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := buildAndPersist(cmd, []string{dir}); err != nil {
		return err
	}
	return service.Watch(cmd.Context(), dir, watchDebounce, func(context.Context) error {
		return buildAndPersist(cmd, []string{dir})
	})
}
