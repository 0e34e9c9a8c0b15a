package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/spf13/afero"

	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/models"
)

// DefaultPolicyPackage is the default Rego package path for sessionlens
// policies.
const DefaultPolicyPackage = "sessionlens.policy"

// DefaultPolicy gates sessions when no project-specific policies exist:
// deny a session whose derived overall success drops below 0.5, warn on any
// placeholder plan.
const DefaultPolicy = `package sessionlens.policy

import rego.v1

deny contains msg if {
	input.summary.overall_success < 0.5
	msg := sprintf("overall success %v below 0.5", [input.summary.overall_success])
}

warn contains msg if {
	input.summary.degraded_plans > 0
	msg := sprintf("%v project(s) carry placeholder plans", [input.summary.degraded_plans])
}
`

// Engine wraps OPA for report gate evaluation. It loads policies from
// .rego files and evaluates them against a decoded session report. All
// evaluation happens locally without external network calls.
type Engine struct {
	policies      []*PolicyFile
	policyPackage string
}

// EngineConfig holds configuration for creating an Engine.
type EngineConfig struct {
	// PoliciesDir is the directory containing .rego policy files.
	PoliciesDir string

	// PolicyPackage is the Rego package to query.
	// If empty, defaults to "sessionlens.policy".
	PolicyPackage string

	// Fs is the filesystem to use for loading policies.
	// If nil, uses the OS filesystem.
	Fs afero.Fs
}

// NewEngine creates a new policy engine with the given configuration.
// When the policies directory holds no .rego files, the embedded
// DefaultPolicy is used.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.PolicyPackage == "" {
		cfg.PolicyPackage = DefaultPolicyPackage
	}

	loader := NewLoader(cfg.Fs, cfg.PoliciesDir)
	policies, err := loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	if len(policies) == 0 {
		policies = []*PolicyFile{{Path: "builtin/default.rego", Name: "default", Content: DefaultPolicy}}
	}

	return &Engine{
		policies:      policies,
		policyPackage: cfg.PolicyPackage,
	}, nil
}

// NewEngineWithPolicies creates an engine with explicitly provided policies.
// This is useful for testing or when policies come from sources other than
// files.
func NewEngineWithPolicies(policies []*PolicyFile) *Engine {
	return &Engine{
		policies:      policies,
		policyPackage: DefaultPolicyPackage,
	}
}

// PolicyCount returns the number of loaded policies.
func (e *Engine) PolicyCount() int {
	return len(e.policies)
}

// PolicyNames returns the names of all loaded policies.
func (e *Engine) PolicyNames() []string {
	names := make([]string, len(e.policies))
	for i, p := range e.policies {
		names[i] = p.Name
	}
	return names
}

// EvaluateReport gates a decoded session report. The Rego input carries the
// raw document under input.report and derived metrics under input.summary.
func (e *Engine) EvaluateReport(ctx context.Context, r *models.SessionReport) (*PolicyDecision, error) {
	summary := report.Summarize(r)

	// Round-trip through JSON so Rego sees the wire field names.
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report for policy input: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal report for policy input: %w", err)
	}

	input := map[string]any{
		"report": doc,
		"summary": map[string]any{
			"overall_success": summary.OverallSuccess,
			"degraded_plans":  summary.DegradedPlans,
			"projects":        summary.Projects,
			"total_subtasks":  summary.TotalSubtasks,
		},
	}

	return e.Evaluate(ctx, input)
}

// Evaluate runs all loaded policies against the provided input. Strings
// yielded by "deny" rules become violations that block; strings from "warn"
// rules are advisory.
func (e *Engine) Evaluate(ctx context.Context, input any) (*PolicyDecision, error) {
	decision := &PolicyDecision{
		DecisionID:  uuid.New().String(),
		PolicyPath:  e.policyPackage,
		Result:      PolicyResultAllow,
		EvaluatedAt: time.Now().UTC(),
	}

	if len(e.policies) == 0 {
		return decision, nil
	}

	modules := make([]func(*rego.Rego), len(e.policies))
	for i, p := range e.policies {
		modules[i] = rego.Module(p.Path, p.Content)
	}

	violations, err := e.querySet(ctx, input, "deny", modules)
	if err != nil {
		return nil, fmt.Errorf("query deny rules: %w", err)
	}
	warnings, err := e.querySet(ctx, input, "warn", modules)
	if err != nil {
		// Warn rules are optional.
		warnings = nil
	}

	if len(violations) > 0 {
		decision.Result = PolicyResultDeny
		decision.Violations = violations
	}
	decision.Warnings = warnings
	return decision, nil
}

func (e *Engine) querySet(ctx context.Context, input any, ruleName string, modules []func(*rego.Rego)) ([]string, error) {
	query := fmt.Sprintf("data.%s.%s", e.policyPackage, ruleName)

	opts := []func(*rego.Rego){
		rego.Query(query),
		rego.Input(input),
	}
	opts = append(opts, modules...)

	r := rego.New(opts...)
	rs, err := r.Eval(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "undefined") {
			return nil, nil // Rule not defined is OK
		}
		return nil, err
	}

	var results []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			if set, ok := expr.Value.([]any); ok {
				for _, item := range set {
					if s, ok := item.(string); ok {
						results = append(results, s)
					}
				}
			}
		}
	}

	return results, nil
}
