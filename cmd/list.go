package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/memory"
	"github.com/itzcole03/sessionlens/internal/ui"
)

var (
	listDegraded bool
	listLimit    int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested sessions",
	Long: `List ingested sessions from the index, newest first.

Examples:
  sessionlens list
  sessionlens list --degraded      # only sessions with placeholder plans
  sessionlens list --limit 5`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listDegraded, "degraded", false, "only sessions containing degraded plans")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of sessions to show (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	index, err := GetIndex()
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	var rows []memory.SessionRow
	if listDegraded {
		rows, err = index.DegradedSessions()
	} else {
		rows, err = index.ListSessions()
	}
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if listLimit > 0 && len(rows) > listLimit {
		rows = rows[:listLimit]
	}

	if isJSON() {
		return printJSON(rows)
	}

	if len(rows) == 0 {
		cmd.Println("No sessions ingested yet. Run 'sessionlens ingest <report.json>' first.")
		return nil
	}

	ui.RenderSessionList(rows)
	return nil
}
