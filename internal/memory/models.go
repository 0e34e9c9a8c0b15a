// Package memory provides the SQLite-backed index of ingested session
// reports. The archive (store package) holds the verbatim documents; this
// index exists for cross-session queries.
package memory

import "time"

// SessionRow is the indexed view of one ingested session report.
type SessionRow struct {
	ID             string    `json:"id"`        // Ingest ID (uuid)
	Timestamp      string    `json:"timestamp"` // Report timestamp, verbatim
	SystemStatus   string    `json:"systemStatus"`
	Projects       int       `json:"projects"`
	TasksExecuted  int       `json:"tasksExecuted"`
	FilesGenerated int       `json:"filesGenerated"`
	AgentsActive   int       `json:"agentsActive"`
	OverallSuccess float64   `json:"overallSuccess"` // Mean project success rate [0,1]
	DegradedPlans  int       `json:"degradedPlans"`  // Projects with placeholder plans
	SourcePath     string    `json:"sourcePath,omitempty"`
	IngestedAt     time.Time `json:"ingestedAt"`
}

// AgentRow is one agent's stats within one indexed session.
type AgentRow struct {
	SessionID        string   `json:"sessionId"`
	Role             string   `json:"role"`
	ExperiencesCount int      `json:"experiencesCount"`
	SuccessfulTasks  int      `json:"successfulTasks"`
	Specialization   []string `json:"specialization,omitempty"`
	Status           string   `json:"status"`
}

// ProjectRow is one project outcome within one indexed session.
type ProjectRow struct {
	SessionID      string  `json:"sessionId"`
	ProjectID      string  `json:"projectId"`
	Title          string  `json:"title"`
	Complexity     string  `json:"complexity"`
	Priority       string  `json:"priority"`
	TasksCompleted int     `json:"tasksCompleted"`
	SuccessRate    float64 `json:"successRate"`
	Outputs        int     `json:"outputs"`
	CompletionTime float64 `json:"completionTime"`
	PlanDegraded   bool    `json:"planDegraded"`
}

// AgentTotal aggregates one role's stats across all indexed sessions.
type AgentTotal struct {
	Role             string  `json:"role"`
	Sessions         int     `json:"sessions"`
	ExperiencesCount int     `json:"experiencesCount"`
	SuccessfulTasks  int     `json:"successfulTasks"`
	SuccessRatio     float64 `json:"successRatio"`
}
