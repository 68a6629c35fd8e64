package cli

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docindex/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Search the persisted index interactively",
	Long: `Opens a terminal UI over the persisted index.

Controls:
  Enter      - Search
  Up/Down    - Previous / next result
  Ctrl+C     - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires an interactive terminal; use 'docindex search' instead")
	}
	svc, err := loadedService()
	if err != nil {
		return err
	}
	m := tui.New(svc, svc.Digest(), cfg.Search.TopK)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
