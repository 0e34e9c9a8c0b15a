// Package mcp exposes session report intelligence over the Model Context
// Protocol so AI assistants can query the archive and index directly.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/itzcole03/sessionlens/internal/memory"
	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/store"
	"github.com/itzcole03/sessionlens/types"
)

const defaultListLimit = 20

// RegisterTools registers the sessionlens MCP tools on the server.
func RegisterTools(server *mcpsdk.Server, archive store.ReportStore, index memory.IndexStore) error {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "session-summary",
		Description: "Summarize one archived session: overall success, degraded plans, per-agent workload, project names. Args: id (required).",
	}, sessionSummaryHandler(archive))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list-sessions",
		Description: "List indexed sessions, newest first. Args: limit (default 20), degradedOnly (bool) to only return sessions with placeholder plans.",
	}, listSessionsHandler(index))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "agent-performance",
		Description: "Aggregate agent stats across all indexed sessions: experiences, successful tasks, success ratio. Args: role [architect|backend|frontend|orchestrator|qa] to filter.",
	}, agentPerformanceHandler(index))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "lint-report",
		Description: "Validate a raw session report JSON document. Returns errors and warnings (schema violations, unknown agent roles, degraded plans, inconsistent averages). Args: report (required), strict (bool).",
	}, lintReportHandler())

	logInfo(fmt.Sprintf("sessionlens %s: registered 4 tools", hooks.GetVersion()))
	return nil
}

// sessionToResponse converts an indexed row to the wire shape.
func sessionToResponse(row memory.SessionRow) types.SessionResponse {
	return types.SessionResponse{
		ID:             row.ID,
		Timestamp:      row.Timestamp,
		IngestedAt:     row.IngestedAt.Format(time.RFC3339),
		SystemStatus:   row.SystemStatus,
		Projects:       row.Projects,
		OverallSuccess: row.OverallSuccess,
		DegradedPlans:  row.DegradedPlans,
	}
}

func sessionSummaryHandler(archive store.ReportStore) mcpsdk.ToolHandlerFor[types.SessionSummaryParams, types.SessionSummaryResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.SessionSummaryParams]) (*mcpsdk.CallToolResultFor[types.SessionSummaryResponse], error) {
		args := params.Arguments
		logToolCall("session-summary", args)

		if strings.TrimSpace(args.ID) == "" {
			return nil, types.NewMCPError("MISSING_ID", "Session ID is required", map[string]interface{}{
				"field": "id",
			})
		}

		entry, err := archive.GetReport(args.ID)
		if err != nil {
			return nil, types.NewMCPError("SESSION_NOT_FOUND", fmt.Sprintf("Session %s not found in archive", args.ID), map[string]interface{}{
				"id": args.ID,
			})
		}

		summary := report.Summarize(&entry.Report)

		workloads := make(map[string]int, len(summary.Agents))
		for _, w := range summary.Agents {
			workloads[w.Role] = w.SubtasksPlanned
		}

		var projectNames []string
		for _, outcome := range entry.Report.ProjectDetails {
			projectNames = append(projectNames, outcome.Project.Title)
		}

		response := types.SessionSummaryResponse{
			Session: types.SessionResponse{
				ID:             entry.ID,
				Timestamp:      string(entry.Report.Timestamp),
				IngestedAt:     entry.IngestedAt.Format(time.RFC3339),
				SystemStatus:   string(entry.Report.SystemStatus),
				Projects:       summary.Projects,
				OverallSuccess: summary.OverallSuccess,
				DegradedPlans:  summary.DegradedPlans,
			},
			TotalSubtasks:  summary.TotalSubtasks,
			TotalOutputs:   summary.TotalOutputs,
			AgentWorkloads: workloads,
			ProjectNames:   projectNames,
			DegradedNames:  report.DegradedProjects(&entry.Report),
		}

		logInfo(fmt.Sprintf("Summarized session %s (%d projects)", entry.ID, summary.Projects))

		text := fmt.Sprintf("Session %s: %d projects, overall success %.2f, %d degraded plans",
			entry.ID, summary.Projects, summary.OverallSuccess, summary.DegradedPlans)

		return &mcpsdk.CallToolResultFor[types.SessionSummaryResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: text},
			},
			StructuredContent: response,
			IsError:           false,
		}, nil
	}
}

func listSessionsHandler(index memory.IndexStore) mcpsdk.ToolHandlerFor[types.ListSessionsParams, types.SessionListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ListSessionsParams]) (*mcpsdk.CallToolResultFor[types.SessionListResponse], error) {
		args := params.Arguments
		logToolCall("list-sessions", args)

		var (
			rows []memory.SessionRow
			err  error
		)
		if args.DegradedOnly {
			rows, err = index.DegradedSessions()
		} else {
			rows, err = index.ListSessions()
		}
		if err != nil {
			logError(err)
			return nil, types.NewMCPError("INDEX_ERROR", fmt.Sprintf("List sessions failed: %s", err), nil)
		}

		limit := args.Limit
		if limit <= 0 {
			limit = defaultListLimit
		}
		if len(rows) > limit {
			rows = rows[:limit]
		}

		sessions := make([]types.SessionResponse, len(rows))
		for i, row := range rows {
			sessions[i] = sessionToResponse(row)
		}

		response := types.SessionListResponse{
			Sessions: sessions,
			Count:    len(sessions),
		}

		logInfo(fmt.Sprintf("Listed %d sessions", len(sessions)))

		return &mcpsdk.CallToolResultFor[types.SessionListResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: fmt.Sprintf("Found %d sessions", len(sessions))},
			},
			StructuredContent: response,
			IsError:           false,
		}, nil
	}
}

func agentPerformanceHandler(index memory.IndexStore) mcpsdk.ToolHandlerFor[types.AgentPerformanceParams, types.AgentPerformanceResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.AgentPerformanceParams]) (*mcpsdk.CallToolResultFor[types.AgentPerformanceResponse], error) {
		args := params.Arguments
		logToolCall("agent-performance", args)

		totals, err := index.AgentTotals()
		if err != nil {
			logError(err)
			return nil, types.NewMCPError("INDEX_ERROR", fmt.Sprintf("Aggregate agent stats failed: %s", err), nil)
		}

		role := strings.ToLower(strings.TrimSpace(args.Role))
		var agents []types.AgentTotalResponse
		for _, t := range totals {
			if role != "" && t.Role != role {
				continue
			}
			agents = append(agents, types.AgentTotalResponse{
				Role:         t.Role,
				Sessions:     t.Sessions,
				Experiences:  t.ExperiencesCount,
				Successful:   t.SuccessfulTasks,
				SuccessRatio: t.SuccessRatio,
			})
		}

		if role != "" && len(agents) == 0 {
			return nil, types.NewMCPError("ROLE_NOT_FOUND", fmt.Sprintf("No indexed stats for agent role %q", role), map[string]interface{}{
				"role": role,
			})
		}

		response := types.AgentPerformanceResponse{
			Agents: agents,
			Count:  len(agents),
		}

		logInfo(fmt.Sprintf("Aggregated stats for %d agent roles", len(agents)))

		return &mcpsdk.CallToolResultFor[types.AgentPerformanceResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: fmt.Sprintf("Aggregated stats for %d agent roles", len(agents))},
			},
			StructuredContent: response,
			IsError:           false,
		}, nil
	}
}

func lintReportHandler() mcpsdk.ToolHandlerFor[types.LintReportParams, types.LintReportResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.LintReportParams]) (*mcpsdk.CallToolResultFor[types.LintReportResponse], error) {
		args := params.Arguments
		logToolCall("lint-report", map[string]interface{}{"strict": args.Strict, "bytes": len(args.Report)})

		if strings.TrimSpace(args.Report) == "" {
			return nil, types.NewMCPError("MISSING_REPORT", "Report document is required", map[string]interface{}{
				"field": "report",
			})
		}

		decode := report.Decode
		if args.Strict {
			decode = report.DecodeStrict
		}
		doc, err := decode(strings.NewReader(args.Report))
		if err != nil {
			return nil, types.NewMCPError("DECODE_FAILED", fmt.Sprintf("Report does not parse: %s", err), nil)
		}

		result := report.Lint(doc)

		findings := make([]types.LintFindingResponse, 0, len(result.Findings))
		var errCount, warnCount int
		for _, f := range result.Findings {
			if f.Severity == report.SeverityError {
				errCount++
			} else {
				warnCount++
			}
			findings = append(findings, types.LintFindingResponse{
				Severity: string(f.Severity),
				Field:    f.Field,
				Message:  f.Message,
			})
		}

		response := types.LintReportResponse{
			Valid:    errCount == 0,
			Errors:   errCount,
			Warnings: warnCount,
			Findings: findings,
		}

		text := fmt.Sprintf("Report lint: %d errors, %d warnings", errCount, warnCount)
		logInfo(text)

		return &mcpsdk.CallToolResultFor[types.LintReportResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: text},
			},
			StructuredContent: response,
			IsError:           false,
		}, nil
	}
}
