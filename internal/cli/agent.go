package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docindex/internal/agent"
)

var agentTopK int

var agentCmd = &cobra.Command{
	Use:   "agent [name] [query]",
	Short: "Run a pipeline agent and print its JSON result",
	Long: `Runs one registered agent against the persisted index.

Agents:
  planner    - print the serial execution plan
  retrieval  - top-k chunks for the query, with provenance and a run id`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().IntVarP(&agentTopK, "top-k", "k", 0, "number of results for retrieval (default search.top_k)")
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	svc, err := loadedService()
	if err != nil {
		return err
	}
	registry := agent.NewRegistry(agent.Planner{}, agent.NewRetrieval(svc, cfg.Search.TopK))
	a, err := registry.Get(args[0])
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(registry.Names(), ", "))
	}

	payload := agent.Payload{}
	if len(args) > 1 {
		payload["query"] = strings.Join(args[1:], " ")
	}
	if agentTopK > 0 {
		payload["top_k"] = agentTopK
	}
	result, err := a.Run(cmd.Context(), payload)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
