package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/policy"
	"github.com/itzcole03/sessionlens/internal/ui"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the local setup",
	Long: `Diagnose the local setup: configuration, archive, index, policies,
and the local generation backends (Ollama, LM Studio).

Reports whose plans contain placeholder text were produced while both
backends were unreachable; the probes here show whether that is still
the case.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// checkResult is one doctor finding.
type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // ok, warn, fail
	Message string `json:"message"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	var results []checkResult

	// Configuration
	if _, err := os.Stat(cfg.Project.RootDir); os.IsNotExist(err) {
		results = append(results, checkResult{"config", "warn",
			fmt.Sprintf("project dir %s does not exist yet (created on first ingest)", cfg.Project.RootDir)})
	} else {
		results = append(results, checkResult{"config", "ok",
			fmt.Sprintf("project dir %s", cfg.Project.RootDir)})
	}

	// Archive
	if archive, err := GetStore(); err != nil {
		results = append(results, checkResult{"archive", "fail", err.Error()})
	} else {
		if summaries, err := archive.ListReports(); err != nil {
			results = append(results, checkResult{"archive", "fail", err.Error()})
		} else {
			results = append(results, checkResult{"archive", "ok",
				fmt.Sprintf("%s (%d sessions)", GetArchiveFilePath(), len(summaries))})
		}
		_ = archive.Close()
	}

	// Index
	if index, err := GetIndex(); err != nil {
		results = append(results, checkResult{"index", "fail", err.Error()})
	} else {
		if rows, err := index.ListSessions(); err != nil {
			results = append(results, checkResult{"index", "fail", err.Error()})
		} else {
			results = append(results, checkResult{"index", "ok",
				fmt.Sprintf("%s (%d sessions)", cfg.Index.Dir, len(rows))})
		}
		_ = index.Close()
	}

	// Policies
	if engine, err := policy.NewEngine(policy.EngineConfig{PoliciesDir: cfg.Project.PoliciesDir}); err != nil {
		results = append(results, checkResult{"policies", "fail", err.Error()})
	} else {
		results = append(results, checkResult{"policies", "ok",
			fmt.Sprintf("%d policies loaded", engine.PolicyCount())})
	}

	// Generation backends
	timeout := time.Duration(cfg.Generator.ProbeTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	results = append(results, probeBackend(cmd.Context(), client, "ollama", cfg.Generator.OllamaURL))
	results = append(results, probeBackend(cmd.Context(), client, "lmstudio", cfg.Generator.LMStudioURL))

	if isJSON() {
		return printJSON(results)
	}

	var failed bool
	for _, r := range results {
		var marker string
		switch r.Status {
		case "ok":
			marker = ui.StyleSuccess.Render("✓")
		case "warn":
			marker = ui.StyleWarning.Render("!")
		default:
			marker = ui.StyleError.Render("✗")
			failed = true
		}
		cmd.Printf("%s %-9s %s\n", marker, r.Name, r.Message)
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

// probeBackend checks whether a local generation backend answers HTTP.
// An unreachable backend is a warning, not a failure: sessionlens never
// calls a model itself, it only explains placeholder plans.
func probeBackend(ctx context.Context, client *http.Client, name, url string) checkResult {
	if url == "" {
		return checkResult{name, "warn", "no endpoint configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return checkResult{name, "warn", fmt.Sprintf("invalid endpoint %s: %v", url, err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return checkResult{name, "warn",
			fmt.Sprintf("%s unreachable (new reports will carry placeholder plans)", url)}
	}
	defer func() { _ = resp.Body.Close() }()

	return checkResult{name, "ok", fmt.Sprintf("%s answered %d", url, resp.StatusCode)}
}
