package report

import (
	"fmt"
	"math"
	"slices"

	"github.com/itzcole03/sessionlens/models"
)

// Severity classifies a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single issue discovered while linting a report.
type Finding struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// LintResult aggregates findings for one report.
type LintResult struct {
	Findings []Finding `json:"findings"`
}

// HasErrors reports whether any finding is an error.
func (r *LintResult) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *LintResult) addError(field, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Severity: SeverityError, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *LintResult) addWarning(field, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Severity: SeverityWarning, Field: field, Message: fmt.Sprintf(format, args...)})
}

// consistencyEpsilon bounds the allowed drift between the reported average
// success rate and the mean recomputed from project_details.
const consistencyEpsilon = 0.005

// Lint checks a decoded report for schema violations and suspicious values
// that struct validation alone cannot express. Schema violations from
// validator tags are folded in as errors.
func Lint(report *models.SessionReport) *LintResult {
	result := &LintResult{}

	if err := models.ValidateStruct(report); err != nil {
		result.addError("", "%v", err)
	}

	if _, err := report.Timestamp.Time(); err != nil {
		result.addError("timestamp", "%v", err)
	}

	for role := range report.AgentStats {
		if !slices.Contains(models.KnownAgentRoles, role) {
			result.addWarning("agent_performance", "unknown agent role %q", role)
		}
	}

	for i, outcome := range report.ProjectDetails {
		field := fmt.Sprintf("project_details[%d]", i)
		if outcome.SuccessRate < 0 || outcome.SuccessRate > 1 {
			result.addError(field+".success_rate", "success_rate %.3f outside [0,1]", outcome.SuccessRate)
		}
		if IsDegradedPlan(outcome.Project.Plan) {
			result.addWarning(field+".project.plan.task_breakdown",
				"placeholder plan for project %s: generation model was unreachable", outcome.Project.ID)
		}
		for j, st := range outcome.Project.Plan.Subtasks {
			if st.Agent != "" && !slices.Contains(models.KnownAgentRoles, st.Agent) {
				result.addWarning(fmt.Sprintf("%s.project.plan.subtasks[%d].agent", field, j),
					"subtask assigned to unknown agent %q", st.Agent)
			}
		}
	}

	// The session-level average should match the mean of project success
	// rates; drift beyond rounding suggests a truncated or edited report.
	if len(report.ProjectDetails) > 0 {
		overall := OverallSuccess(report)
		reported := report.Session.AverageSuccessRate / 100.0
		if math.Abs(overall-reported) > consistencyEpsilon {
			result.addWarning("autonomous_session.average_success_rate",
				"reported average %.1f%% disagrees with mean of project success rates %.1f%%",
				report.Session.AverageSuccessRate, overall*100)
		}
	}

	if report.Session.ProjectsCompleted != len(report.ProjectDetails) {
		result.addWarning("autonomous_session.projects_completed",
			"projects_completed=%d but project_details holds %d entries",
			report.Session.ProjectsCompleted, len(report.ProjectDetails))
	}

	return result
}
