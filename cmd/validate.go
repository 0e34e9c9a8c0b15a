package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/logger"
	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/internal/telemetry"
	"github.com/itzcole03/sessionlens/internal/ui"
)

var validateStrict bool

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <report.json>",
	Short: "Validate a session report document",
	Long: `Validate a session report document against the schema.

Checks field types and ranges, agent role names, success rate bounds,
placeholder plans left by an unreachable local model, and consistency
between the session summary and the project details.

Exits non-zero when the report has errors. Warnings alone do not fail
validation.

Examples:
  sessionlens validate session_report.json
  sessionlens validate --strict session_report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "reject unknown fields")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.SetLastReport(path)

	load := report.Load
	if validateStrict {
		load = report.LoadStrict
	}

	doc, err := load(path)
	if err != nil {
		return fmt.Errorf("load report %s: %w", path, err)
	}

	result := report.Lint(doc)

	trackEvent(telemetry.NewEvent(telemetry.EventReportValidated).
		WithProp("strict", validateStrict).
		WithProp("findings", len(result.Findings)).
		WithProp("passed", !result.HasErrors()))

	if isJSON() {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		ui.RenderFindings(result)
	}

	if result.HasErrors() {
		return fmt.Errorf("report %s failed validation", path)
	}
	return nil
}
