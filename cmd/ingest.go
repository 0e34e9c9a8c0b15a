package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/logger"
	"github.com/itzcole03/sessionlens/internal/memory"
	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/internal/telemetry"
	"github.com/itzcole03/sessionlens/internal/ui"
	"github.com/itzcole03/sessionlens/models"
	"github.com/itzcole03/sessionlens/store"
)

var ingestForce bool

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <report.json> [more.json...]",
	Short: "Archive and index session reports",
	Long: `Archive session reports and index them for cross-session queries.

Each report is validated first. Reports with validation errors are
skipped unless --force is set; warnings never block ingestion. The
verbatim document goes into the archive file and a derived row into
the SQLite index.

Examples:
  sessionlens ingest session_report.json
  sessionlens ingest reports/*.json
  sessionlens ingest --force session_report.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "ingest even when validation reports errors")
}

func runIngest(cmd *cobra.Command, args []string) error {
	archive, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close() }()

	index, err := GetIndex()
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	var failed int
	for _, path := range args {
		entry, result, err := ingestFile(archive, index, path, ingestForce)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", path, err)
			if result != nil && !isJSON() {
				ui.RenderFindings(result)
			}
			continue
		}

		trackEvent(telemetry.NewEvent(telemetry.EventReportIngested).
			WithProp("projects", len(entry.Report.ProjectDetails)).
			WithProp("degraded_plans", entry.DegradedPlans))

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s ingested as %s (%d projects, overall success %.2f)\n",
			path, entry.ID, len(entry.Report.ProjectDetails), entry.OverallSuccess)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed to ingest", failed, len(args))
	}
	return nil
}

// ingestFile validates, archives, and indexes one report file. The lint
// result is returned alongside errors so callers can show findings.
func ingestFile(archive store.ReportStore, index memory.IndexStore, path string, force bool) (*models.ArchivedSession, *report.LintResult, error) {
	logger.SetLastReport(path)

	doc, err := report.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load report: %w", err)
	}

	result := report.Lint(doc)
	if result.HasErrors() && !force {
		return nil, result, fmt.Errorf("validation failed (use --force to ingest anyway)")
	}

	entry := models.ArchivedSession{
		SourcePath:     path,
		IngestedAt:     time.Now().UTC(),
		Report:         *doc,
		OverallSuccess: report.OverallSuccess(doc),
		DegradedPlans:  len(report.DegradedProjects(doc)),
	}

	saved, err := archive.SaveReport(entry)
	if err != nil {
		return nil, result, fmt.Errorf("archive report: %w", err)
	}

	if _, err := index.IndexReport(saved.ID, path, doc); err != nil {
		// Keep archive and index consistent when indexing fails.
		_ = archive.DeleteReport(saved.ID)
		return nil, result, fmt.Errorf("index report: %w", err)
	}

	return &saved, result, nil
}
