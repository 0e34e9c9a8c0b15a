package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itzcole03/sessionlens/internal/telemetry"
	"github.com/itzcole03/sessionlens/internal/watch"
)

var watchSettle time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new reports",
	Long: `Watch a directory for session report files and ingest them as
they appear. Without an argument, the configured reports directory is
watched. Writes are debounced so partially written files are not picked
up mid-write.

Examples:
  sessionlens watch
  sessionlens watch /var/reports --settle 2s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 500*time.Millisecond, "quiet period before ingesting a changed file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := GetReportsDirPath()
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create watch dir %s: %w", dir, err)
	}

	log, err := newWatchLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

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

	handler := func(path string) error {
		entry, result, err := ingestFile(archive, index, path, false)
		if err != nil {
			fields := []zap.Field{zap.String("path", path), zap.Error(err)}
			if result != nil {
				fields = append(fields, zap.Int("findings", len(result.Findings)))
			}
			log.Warn("report rejected", fields...)
			return err
		}
		log.Info("report ingested",
			zap.String("path", path),
			zap.String("id", entry.ID),
			zap.Int("projects", len(entry.Report.ProjectDetails)),
			zap.Float64("overall_success", entry.OverallSuccess),
			zap.Int("degraded_plans", entry.DegradedPlans),
		)
		return nil
	}

	watcher, err := watch.New(watch.Options{
		Dir:    dir,
		Settle: watchSettle,
		Logger: log,
	}, handler)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	trackEvent(telemetry.NewEvent(telemetry.EventWatchStarted))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching for reports", zap.String("dir", dir))
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newWatchLogger builds the zap logger for long-running commands.
func newWatchLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = nil
	return cfg.Build()
}
