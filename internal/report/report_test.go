package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/itzcole03/sessionlens/models"
)

const sampleReport = `{
  "timestamp": "2025-07-30T18:42:11.504312",
  "autonomous_session": {
    "projects_completed": 3,
    "tasks_executed": 12,
    "average_success_rate": 100.0,
    "files_generated": 9,
    "agents_active": 5
  },
  "memory_intelligence": {
    "profiles_loaded": 5,
    "experiences_stored": 12,
    "knowledge_base_active": true,
    "vector_db_connected": false
  },
  "agent_performance": {
    "architect": {
      "experiences_count": 3,
      "successful_tasks": 3,
      "specialization": ["system_design", "task_planning"],
      "status": "active"
    },
    "backend": {
      "experiences_count": 4,
      "successful_tasks": 4,
      "specialization": ["api_development", "database_design"],
      "status": "active"
    },
    "qa": {
      "experiences_count": 2,
      "successful_tasks": 2,
      "specialization": ["testing", "quality_assurance"],
      "status": "active"
    }
  },
  "project_details": [
    {
      "project": {
        "id": "proj-001",
        "title": "REST API service",
        "description": "Build a small REST API",
        "complexity": "medium",
        "priority": "high",
        "estimated_duration": "2-3 hours",
        "required_agents": ["architect", "backend", "qa"],
        "plan": {
          "type": "development",
          "task_breakdown": "Content generation requires a local model (Ollama or LM Studio) to be running.",
          "subtasks": [
            {"title": "Design endpoints", "agent": "architect", "priority": "high"},
            {"title": "Implement handlers", "agent": "backend", "priority": "medium"},
            {"title": "Write tests", "agent": "qa", "priority": "medium"}
          ],
          "dependencies": [
            {"description": "Design before implementation", "type": "sequential"}
          ],
          "assignments": [],
          "summary": "Fallback plan",
          "success": true
        }
      },
      "tasks_completed": 4,
      "success_rate": 1.0,
      "outputs_generated": 3,
      "completion_time": 42.7
    },
    {
      "project": {
        "id": "proj-002",
        "title": "CLI dashboard",
        "description": "",
        "complexity": "low",
        "priority": "medium",
        "estimated_duration": "",
        "required_agents": ["frontend"],
        "plan": {
          "type": "development",
          "task_breakdown": "1. Scaffold\n2. Render",
          "subtasks": [
            {"title": "Scaffold", "agent": "frontend", "priority": "medium"}
          ],
          "dependencies": [],
          "assignments": [],
          "summary": "",
          "success": true
        }
      },
      "tasks_completed": 2,
      "success_rate": 1.0,
      "outputs_generated": 2,
      "completion_time": 18.2
    },
    {
      "project": {
        "id": "proj-003",
        "title": "Data importer",
        "description": "",
        "complexity": "high",
        "priority": "critical",
        "estimated_duration": "",
        "required_agents": ["backend", "qa"],
        "plan": {
          "type": "development",
          "task_breakdown": "1. Parse\n2. Load",
          "subtasks": [
            {"title": "Parse input", "agent": "backend", "priority": "high"}
          ],
          "dependencies": [],
          "assignments": [],
          "summary": "",
          "success": true
        }
      },
      "tasks_completed": 6,
      "success_rate": 1.0,
      "outputs_generated": 4,
      "completion_time": 95.0
    }
  ],
  "system_status": "operational"
}`

func decodeSample(t *testing.T) *models.SessionReport {
	t.Helper()
	report, err := Decode(strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return report
}

func TestDecode_Fields(t *testing.T) {
	report := decodeSample(t)

	if report.Session.ProjectsCompleted != 3 {
		t.Errorf("projects_completed = %d, want 3", report.Session.ProjectsCompleted)
	}
	if report.Session.AverageSuccessRate != 100.0 {
		t.Errorf("average_success_rate = %v, want 100.0", report.Session.AverageSuccessRate)
	}
	if !report.Memory.KnowledgeBaseActive || report.Memory.VectorDBConnected {
		t.Errorf("memory flags = %+v, want knowledge_base_active only", report.Memory)
	}
	if len(report.AgentStats) != 3 {
		t.Fatalf("agent_performance entries = %d, want 3", len(report.AgentStats))
	}
	if report.AgentStats["backend"].SuccessfulTasks != 4 {
		t.Errorf("backend successful_tasks = %d, want 4", report.AgentStats["backend"].SuccessfulTasks)
	}
	if report.SystemStatus != models.SystemOperational {
		t.Errorf("system_status = %q, want operational", report.SystemStatus)
	}
	if got := report.ProjectDetails[0].Project.Plan.Subtasks[0].Agent; got != "architect" {
		t.Errorf("first subtask agent = %q, want architect", got)
	}
}

func TestDecodeStrict_UnknownField(t *testing.T) {
	doc := strings.Replace(sampleReport, `"timestamp"`, `"surprise": 1, "timestamp"`, 1)

	if _, err := DecodeStrict(strings.NewReader(doc)); err == nil {
		t.Fatal("DecodeStrict accepted unknown top-level field")
	}
	if _, err := Decode(strings.NewReader(doc)); err != nil {
		t.Fatalf("lenient Decode rejected unknown field: %v", err)
	}
}

// Round-trip: parsing then serializing must preserve structure exactly
// (same keys, same values).
func TestRoundTrip_StructurallyEquivalent(t *testing.T) {
	report := decodeSample(t)

	var buf bytes.Buffer
	if err := Encode(&buf, report); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var original, reencoded any
	if err := json.Unmarshal([]byte(sampleReport), &original); err != nil {
		t.Fatalf("unmarshal original: %v", err)
	}
	if err := json.Unmarshal(buf.Bytes(), &reencoded); err != nil {
		t.Fatalf("unmarshal re-encoded: %v", err)
	}

	if diff := cmp.Diff(original, reencoded); diff != "" {
		t.Errorf("round-trip changed document structure (-original +reencoded):\n%s", diff)
	}
}

// Optional string fields carrying "" must keep their keys on re-encode;
// proj-002 in the sample has empty description, estimated_duration, and
// plan summary.
func TestRoundTrip_PreservesEmptyOptionalStrings(t *testing.T) {
	report := decodeSample(t)

	var buf bytes.Buffer
	if err := Encode(&buf, report); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var doc struct {
		ProjectDetails []struct {
			Project map[string]json.RawMessage `json:"project"`
		} `json:"project_details"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal re-encoded: %v", err)
	}
	if len(doc.ProjectDetails) < 2 {
		t.Fatalf("re-encoded document has %d projects, want at least 2", len(doc.ProjectDetails))
	}

	project := doc.ProjectDetails[1].Project
	for _, key := range []string{"description", "estimated_duration"} {
		raw, ok := project[key]
		if !ok {
			t.Errorf("re-encode dropped empty project field %q", key)
			continue
		}
		if string(raw) != `""` {
			t.Errorf("project field %q = %s, want \"\"", key, raw)
		}
	}

	var plan map[string]json.RawMessage
	if err := json.Unmarshal(project["plan"], &plan); err != nil {
		t.Fatalf("unmarshal plan: %v", err)
	}
	raw, ok := plan["summary"]
	if !ok {
		t.Fatal("re-encode dropped empty plan summary")
	}
	if string(raw) != `""` {
		t.Errorf("plan summary = %s, want \"\"", raw)
	}
}

func TestIsDegradedPlan(t *testing.T) {
	tests := []struct {
		name      string
		breakdown string
		want      bool
	}{
		{"exact fallback", FallbackTaskBreakdown, true},
		{"older phrasing", "Plan generation requires a local model to be available.", true},
		{"real plan", "1. Design endpoints\n2. Implement handlers", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := models.Plan{TaskBreakdown: tt.breakdown}
			if got := IsDegradedPlan(plan); got != tt.want {
				t.Errorf("IsDegradedPlan(%q) = %v, want %v", tt.breakdown, got, tt.want)
			}
		})
	}
}

func TestDegradedProjects(t *testing.T) {
	report := decodeSample(t)
	ids := DegradedProjects(report)
	if len(ids) != 1 || ids[0] != "proj-001" {
		t.Errorf("DegradedProjects = %v, want [proj-001]", ids)
	}
}

func TestOverallSuccess(t *testing.T) {
	report := decodeSample(t)

	// Three projects each at success_rate 1.0 with average_success_rate
	// 100.0 must derive an overall success of exactly 1.0.
	if got := OverallSuccess(report); got != 1.0 {
		t.Errorf("OverallSuccess = %v, want 1.0", got)
	}

	empty := &models.SessionReport{}
	if got := OverallSuccess(empty); got != 0 {
		t.Errorf("OverallSuccess(empty) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	report := decodeSample(t)
	s := Summarize(report)

	if s.Projects != 3 {
		t.Errorf("Projects = %d, want 3", s.Projects)
	}
	if s.DegradedPlans != 1 {
		t.Errorf("DegradedPlans = %d, want 1", s.DegradedPlans)
	}
	if s.TotalSubtasks != 5 {
		t.Errorf("TotalSubtasks = %d, want 5", s.TotalSubtasks)
	}
	if s.TotalOutputs != 9 {
		t.Errorf("TotalOutputs = %d, want 9", s.TotalOutputs)
	}

	var backend *AgentWorkload
	for i := range s.Agents {
		if s.Agents[i].Role == "backend" {
			backend = &s.Agents[i]
		}
	}
	if backend == nil {
		t.Fatal("backend missing from workload summary")
	}
	if backend.SubtasksPlanned != 2 {
		t.Errorf("backend SubtasksPlanned = %d, want 2", backend.SubtasksPlanned)
	}
	if backend.SuccessRatio != 1.0 {
		t.Errorf("backend SuccessRatio = %v, want 1.0", backend.SuccessRatio)
	}
	// frontend appears only in plan subtasks, not agent_performance.
	found := false
	for _, w := range s.Agents {
		if w.Role == "frontend" {
			found = true
			if w.Experiences != 0 || w.SubtasksPlanned != 1 {
				t.Errorf("frontend workload = %+v, want 1 planned subtask, 0 experiences", w)
			}
		}
	}
	if !found {
		t.Error("frontend missing from workload summary")
	}
}

func TestLint(t *testing.T) {
	t.Run("sample report", func(t *testing.T) {
		report := decodeSample(t)
		result := Lint(report)

		if result.HasErrors() {
			t.Fatalf("expected no errors, got %+v", result.Findings)
		}
		// One degraded plan warning expected.
		degraded := 0
		for _, f := range result.Findings {
			if strings.Contains(f.Message, "placeholder plan") {
				degraded++
			}
		}
		if degraded != 1 {
			t.Errorf("degraded plan warnings = %d, want 1", degraded)
		}
	})

	t.Run("out of range success rate", func(t *testing.T) {
		report := decodeSample(t)
		report.ProjectDetails[0].SuccessRate = 1.7
		result := Lint(report)
		if !result.HasErrors() {
			t.Fatal("expected error for success_rate outside [0,1]")
		}
	})

	t.Run("unknown agent role warns", func(t *testing.T) {
		report := decodeSample(t)
		report.AgentStats["devops"] = report.AgentStats["qa"]
		result := Lint(report)
		if result.HasErrors() {
			t.Fatalf("unknown role should warn, not error: %+v", result.Findings)
		}
		warned := false
		for _, f := range result.Findings {
			if f.Severity == SeverityWarning && strings.Contains(f.Message, "devops") {
				warned = true
			}
		}
		if !warned {
			t.Error("expected warning for unknown agent role")
		}
	})

	t.Run("inconsistent average warns", func(t *testing.T) {
		report := decodeSample(t)
		report.Session.AverageSuccessRate = 40.0
		result := Lint(report)
		warned := false
		for _, f := range result.Findings {
			if strings.Contains(f.Field, "average_success_rate") {
				warned = true
			}
		}
		if !warned {
			t.Error("expected consistency warning for average_success_rate")
		}
	})
}
