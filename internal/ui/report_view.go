package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/models"
)

// RenderReport writes a styled human view of a session report to stdout.
func RenderReport(r *models.SessionReport) {
	fmt.Println(StyleHeader.Render("Autonomous Session Report"))
	fmt.Printf("  %s %s\n", StyleSubtle.Render("Timestamp:"), string(r.Timestamp))
	fmt.Printf("  %s %s\n", StyleSubtle.Render("System:"), StatusStyle(string(r.SystemStatus)).Render(string(r.SystemStatus)))
	fmt.Println()

	renderSessionSummary(r)
	renderMemoryStatus(r.Memory)
	renderAgentTable(r)
	renderProjectTable(r)

	if ids := report.DegradedProjects(r); len(ids) != 0 {
		msg := fmt.Sprintf("%d project(s) carry placeholder plans (%s).\nThe session's generation model was unreachable; run `sessionlens doctor` to probe the configured endpoints.",
			len(ids), strings.Join(ids, ", "))
		fmt.Println(StyleDegradedBox.Render(StyleWarning.Render(msg)))
		fmt.Println()
	}
}

func renderSessionSummary(r *models.SessionReport) {
	fmt.Println(StyleSectionTitle.Render("Session"))
	fmt.Printf("  Projects completed: %s   Tasks executed: %s   Files generated: %s\n",
		StyleMetric.Render(fmt.Sprintf("%d", r.Session.ProjectsCompleted)),
		StyleMetric.Render(fmt.Sprintf("%d", r.Session.TasksExecuted)),
		StyleMetric.Render(fmt.Sprintf("%d", r.Session.FilesGenerated)))
	fmt.Printf("  Agents active: %s   Average success: %s\n",
		StyleMetric.Render(fmt.Sprintf("%d", r.Session.AgentsActive)),
		successStyle(r.Session.AverageSuccessRate/100).Render(fmt.Sprintf("%.1f%%", r.Session.AverageSuccessRate)))
	fmt.Println()
}

func renderMemoryStatus(m models.MemoryStatus) {
	fmt.Println(StyleSectionTitle.Render("Memory Intelligence"))
	fmt.Printf("  Profiles loaded: %s   Experiences stored: %s\n",
		StyleMetric.Render(fmt.Sprintf("%d", m.ProfilesLoaded)),
		StyleMetric.Render(fmt.Sprintf("%d", m.ExperiencesStored)))
	fmt.Printf("  Knowledge base: %s   Vector DB: %s\n",
		boolBadge(m.KnowledgeBaseActive), boolBadge(m.VectorDBConnected))
	fmt.Println()
}

func renderAgentTable(r *models.SessionReport) {
	if len(r.AgentStats) == 0 {
		return
	}
	fmt.Println(StyleSectionTitle.Render("Agent Performance"))

	roles := make([]string, 0, len(r.AgentStats))
	for role := range r.AgentStats {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	t := Table{
		Headers:  []string{"Agent", "Experiences", "Successful", "Specialization", "Status"},
		MaxWidth: 40,
	}
	for _, role := range roles {
		stats := r.AgentStats[role]
		t.Rows = append(t.Rows, []string{
			ToTitle(role),
			fmt.Sprintf("%d", stats.ExperiencesCount),
			fmt.Sprintf("%d", stats.SuccessfulTasks),
			strings.Join(stats.Specialization, ", "),
			string(stats.Status),
		})
	}
	fmt.Println(t.Render())
}

func renderProjectTable(r *models.SessionReport) {
	if len(r.ProjectDetails) == 0 {
		return
	}
	fmt.Println(StyleSectionTitle.Render("Projects"))

	t := Table{
		Headers:  []string{"ID", "Title", "Complexity", "Priority", "Tasks", "Success", "Plan"},
		MaxWidth: 36,
	}
	for _, outcome := range r.ProjectDetails {
		planState := "generated"
		if report.IsDegradedPlan(outcome.Project.Plan) {
			planState = "placeholder"
		}
		t.Rows = append(t.Rows, []string{
			outcome.Project.ID,
			outcome.Project.Title,
			string(outcome.Project.Complexity),
			string(outcome.Project.Priority),
			fmt.Sprintf("%d", outcome.TasksCompleted),
			fmt.Sprintf("%.0f%%", outcome.SuccessRate*100),
			planState,
		})
	}
	fmt.Println(t.Render())
}

// RenderSummary writes the derived metrics view to stdout.
func RenderSummary(s *report.Summary) {
	fmt.Println(StyleHeader.Render("Session Summary"))
	fmt.Printf("  Overall success: %s over %s project(s)\n",
		successStyle(s.OverallSuccess).Render(fmt.Sprintf("%.1f%%", s.OverallSuccess*100)),
		StyleMetric.Render(fmt.Sprintf("%d", s.Projects)))
	fmt.Printf("  Subtasks planned: %s   Outputs: %s   Wall time: %s\n",
		StyleMetric.Render(fmt.Sprintf("%d", s.TotalSubtasks)),
		StyleMetric.Render(fmt.Sprintf("%d", s.TotalOutputs)),
		StyleMetric.Render(fmt.Sprintf("%.1fs", s.TotalCompletionS)))
	if s.DegradedPlans > 0 {
		fmt.Printf("  %s\n", StyleWarning.Render(fmt.Sprintf("Degraded plans: %d", s.DegradedPlans)))
	}
	fmt.Println()

	if len(s.Agents) == 0 {
		return
	}
	t := Table{Headers: []string{"Agent", "Planned", "Successful", "Experiences", "Ratio"}}
	for _, w := range s.Agents {
		t.Rows = append(t.Rows, []string{
			ToTitle(w.Role),
			fmt.Sprintf("%d", w.SubtasksPlanned),
			fmt.Sprintf("%d", w.SuccessfulTasks),
			fmt.Sprintf("%d", w.Experiences),
			fmt.Sprintf("%.2f", w.SuccessRatio),
		})
	}
	fmt.Println(t.Render())
}

// RenderFindings writes lint findings to stdout, errors first.
func RenderFindings(result *report.LintResult) {
	if len(result.Findings) == 0 {
		fmt.Println(StyleSuccess.Render("✔ report is valid"))
		return
	}
	sort.SliceStable(result.Findings, func(i, j int) bool {
		return result.Findings[i].Severity == report.SeverityError && result.Findings[j].Severity != report.SeverityError
	})
	for _, f := range result.Findings {
		prefix := StyleWarning.Render("WARN ")
		if f.Severity == report.SeverityError {
			prefix = StyleError.Render("ERROR")
		}
		if f.Field != "" {
			fmt.Printf("%s %s: %s\n", prefix, StyleSubtle.Render(f.Field), f.Message)
		} else {
			fmt.Printf("%s %s\n", prefix, f.Message)
		}
	}
}

// successStyle maps a success ratio in [0,1] to a severity color.
func successStyle(ratio float64) lipgloss.Style {
	switch {
	case ratio >= 0.9:
		return StyleSuccess
	case ratio >= 0.5:
		return StyleWarning
	default:
		return StyleError
	}
}
