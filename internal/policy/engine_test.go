package policy

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/itzcole03/sessionlens/models"
)

func gateReport(successRate float64, degraded bool) *models.SessionReport {
	breakdown := "1. Do the work"
	if degraded {
		breakdown = "Content generation requires a local model (Ollama or LM Studio) to be running."
	}
	return &models.SessionReport{
		Timestamp:    "2025-07-30T18:42:11Z",
		SystemStatus: models.SystemOperational,
		ProjectDetails: []models.ProjectOutcome{
			{
				Project: models.Project{
					ID:         "proj-001",
					Title:      "REST API service",
					Complexity: models.ComplexityMedium,
					Priority:   models.PriorityHigh,
					Plan:       models.Plan{Type: "development", TaskBreakdown: breakdown},
				},
				SuccessRate: successRate,
			},
		},
	}
}

func TestEngine_DefaultPolicy_Allow(t *testing.T) {
	engine, err := NewEngine(EngineConfig{Fs: afero.NewMemMapFs(), PoliciesDir: "/policies"})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if engine.PolicyCount() != 1 || engine.PolicyNames()[0] != "default" {
		t.Fatalf("expected embedded default policy, got %v", engine.PolicyNames())
	}

	decision, err := engine.EvaluateReport(context.Background(), gateReport(1.0, false))
	if err != nil {
		t.Fatalf("EvaluateReport failed: %v", err)
	}
	if !decision.IsAllowed() {
		t.Errorf("expected allow, got %+v", decision)
	}
	if len(decision.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", decision.Warnings)
	}
}

func TestEngine_DefaultPolicy_DenyLowSuccess(t *testing.T) {
	engine, err := NewEngine(EngineConfig{Fs: afero.NewMemMapFs(), PoliciesDir: "/policies"})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	decision, err := engine.EvaluateReport(context.Background(), gateReport(0.25, false))
	if err != nil {
		t.Fatalf("EvaluateReport failed: %v", err)
	}
	if decision.IsAllowed() {
		t.Fatalf("expected deny for low success, got %+v", decision)
	}
	if len(decision.Violations) == 0 {
		t.Error("expected at least one violation message")
	}
}

func TestEngine_DefaultPolicy_WarnDegraded(t *testing.T) {
	engine, err := NewEngine(EngineConfig{Fs: afero.NewMemMapFs(), PoliciesDir: "/policies"})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	decision, err := engine.EvaluateReport(context.Background(), gateReport(1.0, true))
	if err != nil {
		t.Fatalf("EvaluateReport failed: %v", err)
	}
	if !decision.IsAllowed() {
		t.Errorf("degraded plan alone must not deny: %+v", decision)
	}
	if len(decision.Warnings) != 1 {
		t.Errorf("expected one degraded warning, got %v", decision.Warnings)
	}
}

func TestEngine_LoadsPoliciesFromFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	custom := `package sessionlens.policy

import rego.v1

deny contains msg if {
	input.summary.projects == 0
	msg := "report holds no projects"
}
`
	if err := afero.WriteFile(fs, "/policies/no_empty.rego", []byte(custom), 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	engine, err := NewEngine(EngineConfig{Fs: fs, PoliciesDir: "/policies"})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if engine.PolicyCount() != 1 || engine.PolicyNames()[0] != "no_empty" {
		t.Fatalf("expected custom policy loaded, got %v", engine.PolicyNames())
	}

	empty := &models.SessionReport{Timestamp: "2025-07-30T18:42:11Z", SystemStatus: models.SystemOperational}
	decision, err := engine.EvaluateReport(context.Background(), empty)
	if err != nil {
		t.Fatalf("EvaluateReport failed: %v", err)
	}
	if decision.IsAllowed() {
		t.Errorf("custom policy should deny empty report: %+v", decision)
	}
}

func TestEngine_NoPolicies_Allows(t *testing.T) {
	engine := NewEngineWithPolicies(nil)
	decision, err := engine.Evaluate(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !decision.IsAllowed() {
		t.Errorf("no policies must allow, got %+v", decision)
	}
}
