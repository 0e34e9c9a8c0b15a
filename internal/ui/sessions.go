package ui

import (
	"fmt"
	"time"

	"github.com/itzcole03/sessionlens/internal/memory"
)

// RenderSessionList prints indexed sessions as a table, newest first.
func RenderSessionList(rows []memory.SessionRow) {
	t := Table{
		Headers:  []string{"ID", "Ingested", "Status", "Projects", "Success", "Degraded"},
		MaxWidth: TermWidth(),
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			Truncate(row.ID, 12),
			row.IngestedAt.Local().Format(time.DateTime),
			StatusStyle(row.SystemStatus).Render(row.SystemStatus),
			fmt.Sprintf("%d", row.Projects),
			successStyle(row.OverallSuccess).Render(fmt.Sprintf("%.2f", row.OverallSuccess)),
			fmt.Sprintf("%d", row.DegradedPlans),
		})
	}
	fmt.Println(t.Render())
}

// RenderAgentTotals prints per-role aggregates across all sessions.
func RenderAgentTotals(totals []memory.AgentTotal) {
	t := Table{
		Headers:  []string{"Agent", "Sessions", "Experiences", "Successful", "Ratio"},
		MaxWidth: TermWidth(),
	}
	for _, agg := range totals {
		t.Rows = append(t.Rows, []string{
			ToTitle(agg.Role),
			fmt.Sprintf("%d", agg.Sessions),
			fmt.Sprintf("%d", agg.ExperiencesCount),
			fmt.Sprintf("%d", agg.SuccessfulTasks),
			successStyle(agg.SuccessRatio).Render(fmt.Sprintf("%.2f", agg.SuccessRatio)),
		})
	}
	fmt.Println(t.Render())
}
