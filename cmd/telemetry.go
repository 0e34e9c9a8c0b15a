package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/telemetry"
)

// telemetryCmd represents the telemetry command
var telemetryCmd = &cobra.Command{
	Use:   "telemetry [enable|disable|status]",
	Short: "Manage anonymous usage analytics",
	Long: `Manage anonymous usage analytics.

Telemetry is off by default and only ever sends anonymous usage events.
Report contents, file paths, and project names never leave the machine.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"enable", "disable", "status"},
	RunE:      runTelemetry,
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	cfg, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("load telemetry config: %w", err)
	}

	switch args[0] {
	case "enable":
		cfg.Enable()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save telemetry config: %w", err)
		}
		cmd.Println("Telemetry enabled. Thank you!")
	case "disable":
		cfg.Disable()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save telemetry config: %w", err)
		}
		cmd.Println("Telemetry disabled.")
	case "status":
		state := "disabled"
		if cfg.IsEnabled() {
			state = "enabled"
		}
		cmd.Printf("Telemetry is %s.\n", state)
	default:
		return fmt.Errorf("unknown telemetry action %q", args[0])
	}
	return nil
}

// trackEvent sends a telemetry event on a best-effort basis. A failed or
// disabled pipeline never affects the command outcome. Declared as a
// variable so tests can observe which events commands emit.
var trackEvent = func(event *telemetry.Event) {
	cfg, err := telemetry.Load()
	if err != nil {
		return
	}
	client, err := telemetry.NewClient(cfg, GetConfig().Telemetry.APIKey, "", version)
	if err != nil {
		return
	}
	defer func() { _ = client.Close() }()
	_ = client.Track(event)
}
