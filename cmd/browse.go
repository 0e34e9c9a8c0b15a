package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/ui"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse ingested sessions interactively",
	Long: `Browse ingested sessions in an interactive table. Selecting a
session renders its full report. Press q or esc to quit.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	index, err := GetIndex()
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	rows, err := index.ListSessions()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(rows) == 0 {
		cmd.Println("No sessions ingested yet. Run 'sessionlens ingest <report.json>' first.")
		return nil
	}

	selected, err := ui.BrowseSessions(rows)
	if err != nil {
		return fmt.Errorf("browse sessions: %w", err)
	}
	if selected == "" {
		return nil
	}

	doc, err := resolveReport(selected, true)
	if err != nil {
		return err
	}
	ui.RenderReport(doc)
	return nil
}
