package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/ui"
)

// agentsCmd represents the agents command
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Aggregate agent performance across sessions",
	Long: `Aggregate agent performance across all ingested sessions:
experiences, successful tasks, and the resulting success ratio per role.

Examples:
  sessionlens agents
  sessionlens agents --json`,
	Args: cobra.NoArgs,
	RunE: runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, args []string) error {
	index, err := GetIndex()
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	totals, err := index.AgentTotals()
	if err != nil {
		return fmt.Errorf("aggregate agent stats: %w", err)
	}

	if isJSON() {
		return printJSON(totals)
	}

	if len(totals) == 0 {
		cmd.Println("No agent stats indexed yet. Run 'sessionlens ingest <report.json>' first.")
		return nil
	}

	ui.RenderAgentTotals(totals)
	return nil
}
