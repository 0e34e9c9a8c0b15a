package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SystemStatus represents the overall status reported for a session.
type SystemStatus string

const (
	SystemOperational SystemStatus = "operational"
	SystemDegraded    SystemStatus = "degraded"
	SystemOffline     SystemStatus = "offline"
)

// AgentStatus represents the possible statuses of an agent at report time.
type AgentStatus string

const (
	AgentActive   AgentStatus = "active"
	AgentIdle     AgentStatus = "idle"
	AgentInactive AgentStatus = "inactive"
	AgentError    AgentStatus = "error"
)

// Complexity represents the complexity rating attached to a project.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Priority represents the priority levels of a project or subtask.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// KnownAgentRoles are the agent identifiers observed in session reports.
// Reports may introduce new roles; consumers should treat unknown keys as a
// warning, not an error.
var KnownAgentRoles = []string{"architect", "backend", "frontend", "orchestrator", "qa"}

// Timestamp is an ISO-8601 instant kept verbatim as emitted. Upstream
// producers are inconsistent about timezone suffixes, so the raw string is
// preserved for lossless round-trips and parsed on demand via Time.
type Timestamp string

// timestampLayouts are tried in order by Time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999", // zone-less ISO-8601 (Python isoformat)
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Time parses the timestamp. Zone-less instants are interpreted as UTC.
func (t Timestamp) Time() (time.Time, error) {
	s := strings.TrimSpace(string(t))
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// SessionReport is the top-level record emitted once, atomically, at the end
// of an autonomous session. Field names and nesting mirror the wire format
// exactly; consumers depend on this shape bit-for-bit.
type SessionReport struct {
	Timestamp      Timestamp             `json:"timestamp" validate:"required"`
	Session        SessionSummary        `json:"autonomous_session"`
	Memory         MemoryStatus          `json:"memory_intelligence"`
	AgentStats     map[string]AgentStats `json:"agent_performance" validate:"dive"`
	ProjectDetails []ProjectOutcome      `json:"project_details" validate:"dive"`
	SystemStatus   SystemStatus          `json:"system_status" validate:"required"`
}

// SessionSummary holds the session-level counters.
type SessionSummary struct {
	ProjectsCompleted  int     `json:"projects_completed" validate:"min=0"`
	TasksExecuted      int     `json:"tasks_executed" validate:"min=0"`
	AverageSuccessRate float64 `json:"average_success_rate" validate:"min=0,max=100"`
	FilesGenerated     int     `json:"files_generated" validate:"min=0"`
	AgentsActive       int     `json:"agents_active" validate:"min=0"`
}

// MemoryStatus describes the state of the session's memory subsystem.
type MemoryStatus struct {
	ProfilesLoaded      int  `json:"profiles_loaded" validate:"min=0"`
	ExperiencesStored   int  `json:"experiences_stored" validate:"min=0"`
	KnowledgeBaseActive bool `json:"knowledge_base_active"`
	VectorDBConnected   bool `json:"vector_db_connected"`
}

// AgentStats is the per-agent entry under agent_performance, keyed by role.
type AgentStats struct {
	ExperiencesCount int         `json:"experiences_count" validate:"min=0"`
	SuccessfulTasks  int         `json:"successful_tasks" validate:"min=0"`
	Specialization   []string    `json:"specialization"`
	Status           AgentStatus `json:"status" validate:"required,oneof=active idle inactive error"`
}

// ProjectOutcome wraps a project definition with its execution results.
type ProjectOutcome struct {
	Project          Project `json:"project"`
	TasksCompleted   int     `json:"tasks_completed" validate:"min=0"`
	SuccessRate      float64 `json:"success_rate" validate:"min=0,max=1"`
	OutputsGenerated int     `json:"outputs_generated" validate:"min=0"`
	CompletionTime   float64 `json:"completion_time" validate:"min=0"`
}

// Project describes a unit of work the session planned and executed.
type Project struct {
	ID                string     `json:"id" validate:"required"`
	Title             string     `json:"title" validate:"required"`
	Description       string     `json:"description"`
	Complexity        Complexity `json:"complexity" validate:"required,oneof=low medium high"`
	Priority          Priority   `json:"priority" validate:"required,oneof=low medium high critical"`
	EstimatedDuration string     `json:"estimated_duration"`
	RequiredAgents    []string   `json:"required_agents"`
	Plan              Plan       `json:"plan"`
}

// Plan is the structured task breakdown produced for a project by the
// upstream planning subsystem.
type Plan struct {
	Type          string           `json:"type"`
	TaskBreakdown string           `json:"task_breakdown"`
	Subtasks      []Subtask        `json:"subtasks" validate:"dive"`
	Dependencies  []PlanDependency `json:"dependencies" validate:"dive"`
	Assignments   []map[string]any `json:"assignments"`
	Summary       string           `json:"summary"`
	Success       bool             `json:"success"`
}

// Subtask is a single step of a plan.
type Subtask struct {
	Title    string   `json:"title" validate:"required"`
	Agent    string   `json:"agent" validate:"required"`
	Priority Priority `json:"priority" validate:"required,oneof=low medium high critical"`
}

// PlanDependency is a declared precondition between plan steps.
type PlanDependency struct {
	Description string `json:"description" validate:"required"`
	Type        string `json:"type"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
