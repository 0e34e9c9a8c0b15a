package report

import (
	"sort"

	"github.com/itzcole03/sessionlens/models"
)

// OverallSuccess computes the mean project success rate in [0,1].
// Returns 0 when the report holds no projects.
func OverallSuccess(report *models.SessionReport) float64 {
	if len(report.ProjectDetails) == 0 {
		return 0
	}
	var sum float64
	for _, outcome := range report.ProjectDetails {
		sum += outcome.SuccessRate
	}
	return sum / float64(len(report.ProjectDetails))
}

// AgentWorkload summarizes one agent's share of the session.
type AgentWorkload struct {
	Role            string  `json:"role"`
	SubtasksPlanned int     `json:"subtasks_planned"`
	SuccessfulTasks int     `json:"successful_tasks"`
	Experiences     int     `json:"experiences"`
	SuccessRatio    float64 `json:"success_ratio"`
}

// Summary is the derived view of one report.
type Summary struct {
	OverallSuccess   float64         `json:"overall_success"`
	Projects         int             `json:"projects"`
	DegradedPlans    int             `json:"degraded_plans"`
	TotalSubtasks    int             `json:"total_subtasks"`
	TotalOutputs     int             `json:"total_outputs"`
	TotalCompletionS float64         `json:"total_completion_seconds"`
	Agents           []AgentWorkload `json:"agents"`
}

// Summarize derives session metrics from a decoded report.
func Summarize(r *models.SessionReport) *Summary {
	s := &Summary{
		OverallSuccess: OverallSuccess(r),
		Projects:       len(r.ProjectDetails),
	}

	planned := map[string]int{}
	for _, outcome := range r.ProjectDetails {
		if IsDegradedPlan(outcome.Project.Plan) {
			s.DegradedPlans++
		}
		s.TotalOutputs += outcome.OutputsGenerated
		s.TotalCompletionS += outcome.CompletionTime
		for _, st := range outcome.Project.Plan.Subtasks {
			planned[st.Agent]++
			s.TotalSubtasks++
		}
	}

	roles := map[string]bool{}
	for role := range r.AgentStats {
		roles[role] = true
	}
	for role := range planned {
		roles[role] = true
	}

	for role := range roles {
		w := AgentWorkload{Role: role, SubtasksPlanned: planned[role]}
		if stats, ok := r.AgentStats[role]; ok {
			w.SuccessfulTasks = stats.SuccessfulTasks
			w.Experiences = stats.ExperiencesCount
			if stats.ExperiencesCount > 0 {
				w.SuccessRatio = float64(stats.SuccessfulTasks) / float64(stats.ExperiencesCount)
			}
		}
		s.Agents = append(s.Agents, w)
	}

	sort.Slice(s.Agents, func(i, j int) bool { return s.Agents[i].Role < s.Agents[j].Role })
	return s
}
