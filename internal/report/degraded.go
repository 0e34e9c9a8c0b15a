package report

import (
	"strings"

	"github.com/itzcole03/sessionlens/models"
)

// FallbackTaskBreakdown is the literal placeholder the upstream planner
// writes into task_breakdown when its local generation model (Ollama or
// LM Studio) is unreachable. The session degrades to placeholder plans
// instead of failing outright.
const FallbackTaskBreakdown = "Content generation requires a local model (Ollama or LM Studio) to be running."

// fallbackMarkers cover older phrasings of the same placeholder.
var fallbackMarkers = []string{
	"requires a local model",
	"local model to be running",
	"ollama or lm studio",
}

// IsDegradedPlan reports whether a plan's task_breakdown is the
// missing-model placeholder rather than generated content.
func IsDegradedPlan(plan models.Plan) bool {
	breakdown := strings.TrimSpace(plan.TaskBreakdown)
	if breakdown == "" {
		return false
	}
	if breakdown == FallbackTaskBreakdown {
		return true
	}
	lower := strings.ToLower(breakdown)
	for _, marker := range fallbackMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// DegradedProjects returns the IDs of projects whose plan carries the
// placeholder breakdown.
func DegradedProjects(report *models.SessionReport) []string {
	var ids []string
	for _, outcome := range report.ProjectDetails {
		if IsDegradedPlan(outcome.Project.Plan) {
			ids = append(ids, outcome.Project.ID)
		}
	}
	return ids
}
