package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/policy"
	"github.com/itzcole03/sessionlens/internal/telemetry"
	"github.com/itzcole03/sessionlens/internal/ui"
)

var checkArchived bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <report.json | session-id>",
	Short: "Evaluate a report against policy",
	Long: `Evaluate a session report against the Rego policies in the
configured policies directory. Without custom policies, the built-in
policy denies reports whose overall success is below 0.5 and warns on
degraded plans.

Exits non-zero when a policy denies the report.

Examples:
  sessionlens check session_report.json
  sessionlens check --archived 2f1a...-uuid`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkArchived, "archived", false, "treat the argument as an archived session ID")
}

func runCheck(cmd *cobra.Command, args []string) error {
	doc, err := resolveReport(args[0], checkArchived)
	if err != nil {
		return err
	}

	engine, err := policy.NewEngine(policy.EngineConfig{
		PoliciesDir: GetConfig().Project.PoliciesDir,
	})
	if err != nil {
		return fmt.Errorf("load policy engine: %w", err)
	}

	decision, err := engine.EvaluateReport(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("evaluate policy: %w", err)
	}

	trackEvent(telemetry.NewEvent(telemetry.EventPolicyChecked).
		WithProp("result", decision.Result))

	if isJSON() {
		if err := printJSON(decision); err != nil {
			return err
		}
	} else {
		renderDecision(cmd, decision)
	}

	if !decision.IsAllowed() {
		return fmt.Errorf("policy denied report %s", args[0])
	}
	return nil
}

func renderDecision(cmd *cobra.Command, decision *policy.PolicyDecision) {
	if decision.IsAllowed() {
		cmd.Println(ui.StyleSuccess.Render("✓ Policy allows this report"))
	} else {
		cmd.Println(ui.StyleError.Render("✗ Policy denies this report"))
	}
	for _, v := range decision.Violations {
		cmd.Printf("  %s %s\n", ui.StyleError.Render("deny:"), v)
	}
	for _, w := range decision.Warnings {
		cmd.Printf("  %s %s\n", ui.StyleWarning.Render("warn:"), w)
	}
}
