package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/internal/ui"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary <report.json | session-id>",
	Short: "Summarize a session report",
	Long: `Summarize a session report: overall success, degraded plans,
output counts, and per-agent workload.

Examples:
  sessionlens summary session_report.json
  sessionlens summary --archived 2f1a...-uuid`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

var summaryArchived bool

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryArchived, "archived", false, "treat the argument as an archived session ID")
}

func runSummary(cmd *cobra.Command, args []string) error {
	doc, err := resolveReport(args[0], summaryArchived)
	if err != nil {
		return err
	}

	s := report.Summarize(doc)

	if isJSON() {
		return printJSON(s)
	}

	ui.RenderSummary(s)
	return nil
}
