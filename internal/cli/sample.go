package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docindex/internal/service"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [dir]",
	Short: "Write synthetic support documents for trying out the index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := service.DefaultSampleDir
		if len(args) == 1 {
			dir = args[0]
		}
		paths, err := service.WriteSamples(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sample files to %s\n", len(paths), dir)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docindex version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(versionCmd)
}
