package types

// MCP Tool Parameter Types

// SessionSummaryParams for summarizing an archived session
type SessionSummaryParams struct {
	ID string `json:"id" mcp:"Archived session ID (required)"`
}

// ListSessionsParams for listing indexed sessions
type ListSessionsParams struct {
	Limit        int  `json:"limit,omitempty" mcp:"Maximum number of sessions to return (default 20)"`
	DegradedOnly bool `json:"degradedOnly,omitempty" mcp:"Only return sessions containing degraded plans"`
}

// AgentPerformanceParams for aggregated agent statistics
type AgentPerformanceParams struct {
	Role string `json:"role,omitempty" mcp:"Filter to a single agent role: architect, backend, frontend, orchestrator, qa"`
}

// LintReportParams for linting a report document
type LintReportParams struct {
	Report string `json:"report" mcp:"Raw session report JSON to lint (required)"`
	Strict bool   `json:"strict,omitempty" mcp:"Reject unknown fields during decoding"`
}

// MCP Tool Response Types

// SessionResponse describes one indexed session
type SessionResponse struct {
	ID             string  `json:"id"`
	Timestamp      string  `json:"timestamp"`
	IngestedAt     string  `json:"ingested_at"`
	SystemStatus   string  `json:"system_status"`
	Projects       int     `json:"projects"`
	OverallSuccess float64 `json:"overall_success"`
	DegradedPlans  int     `json:"degraded_plans"`
}

// SessionListResponse for list operations
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Count    int               `json:"count"`
}

// SessionSummaryResponse provides a high-level session summary
type SessionSummaryResponse struct {
	Session        SessionResponse `json:"session"`
	TotalSubtasks  int             `json:"total_subtasks"`
	TotalOutputs   int             `json:"total_outputs"`
	AgentWorkloads map[string]int  `json:"agent_workloads,omitempty"`
	ProjectNames   []string        `json:"project_names"`
	DegradedNames  []string        `json:"degraded_project_names,omitempty"`
}

// AgentTotalResponse aggregates one agent role across sessions
type AgentTotalResponse struct {
	Role         string  `json:"role"`
	Sessions     int     `json:"sessions"`
	Experiences  int     `json:"experiences"`
	Successful   int     `json:"successful_tasks"`
	SuccessRatio float64 `json:"success_ratio"`
}

// AgentPerformanceResponse for aggregated agent statistics
type AgentPerformanceResponse struct {
	Agents []AgentTotalResponse `json:"agents"`
	Count  int                  `json:"count"`
}

// LintFindingResponse is a single validation finding
type LintFindingResponse struct {
	Severity string `json:"severity"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// LintReportResponse for lint operations
type LintReportResponse struct {
	Valid    bool                  `json:"valid"`
	Errors   int                   `json:"errors"`
	Warnings int                   `json:"warnings"`
	Findings []LintFindingResponse `json:"findings,omitempty"`
}
