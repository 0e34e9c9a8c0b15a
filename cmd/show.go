package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/logger"
	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/internal/ui"
	"github.com/itzcole03/sessionlens/models"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <report.json | session-id>",
	Short: "Display a session report",
	Long: `Display a session report with agent and project tables.

The argument is a report file path, or the ID of an archived session
when --archived is set.

Examples:
  sessionlens show session_report.json
  sessionlens show --archived 2f1a...-uuid
  sessionlens show --json session_report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showArchived bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showArchived, "archived", false, "treat the argument as an archived session ID")
}

func runShow(cmd *cobra.Command, args []string) error {
	doc, err := resolveReport(args[0], showArchived)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(doc)
	}

	ui.RenderReport(doc)
	return nil
}

// resolveReport loads a report from a file path or the archive.
func resolveReport(ref string, archived bool) (*models.SessionReport, error) {
	if archived {
		s, err := GetStore()
		if err != nil {
			return nil, err
		}
		defer func() { _ = s.Close() }()

		entry, err := s.GetReport(ref)
		if err != nil {
			return nil, fmt.Errorf("archived session %s: %w", ref, err)
		}
		return &entry.Report, nil
	}

	logger.SetLastReport(ref)
	doc, err := report.Load(ref)
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", ref, err)
	}
	return doc, nil
}
