// Package policy provides the OPA-backed report gate. It evaluates Rego
// policies against a decoded session report so CI pipelines can block on
// degraded or low-success sessions.
package policy

import "time"

// PolicyDecision records the outcome of one gate evaluation.
type PolicyDecision struct {
	DecisionID  string    `json:"decisionId"`           // UUID for referencing
	PolicyPath  string    `json:"policyPath"`           // Rego package path (e.g., "sessionlens.policy")
	Result      string    `json:"result"`               // "allow" or "deny"
	Violations  []string  `json:"violations,omitempty"` // Deny messages from OPA
	Warnings    []string  `json:"warnings,omitempty"`   // Warn messages from OPA
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// PolicyResult constants.
const (
	PolicyResultAllow = "allow"
	PolicyResultDeny  = "deny"
)

// IsAllowed returns true if the policy decision was "allow".
func (d *PolicyDecision) IsAllowed() bool {
	return d.Result == PolicyResultAllow
}
