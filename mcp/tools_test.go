package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/itzcole03/sessionlens/internal/memory"
	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/models"
	"github.com/itzcole03/sessionlens/store"
	"github.com/itzcole03/sessionlens/types"
)

const toolTestReport = `{
  "timestamp": "2025-08-05T14:30:00.123456",
  "autonomous_session": {
    "projects_completed": 2,
    "tasks_executed": 8,
    "average_success_rate": 100.0,
    "files_generated": 6,
    "agents_active": 2
  },
  "memory_intelligence": {
    "profiles_loaded": 5,
    "experiences_stored": 8,
    "knowledge_base_active": true,
    "vector_db_connected": true
  },
  "agent_performance": {
    "architect": {
      "experiences_count": 4,
      "successful_tasks": 4,
      "specialization": ["system_design"],
      "status": "active"
    },
    "backend": {
      "experiences_count": 4,
      "successful_tasks": 3,
      "specialization": ["api_development"],
      "status": "active"
    }
  },
  "project_details": [
    {
      "project": {
        "id": "proj-001",
        "title": "Inventory API",
        "complexity": "medium",
        "priority": "high",
        "required_agents": ["architect", "backend"],
        "plan": {
          "type": "standard",
          "task_breakdown": "Content generation requires a local model (Ollama or LM Studio) to be running.",
          "subtasks": [],
          "dependencies": [],
          "assignments": [],
          "success": false
        }
      },
      "tasks_completed": 4,
      "success_rate": 1.0,
      "outputs_generated": 3,
      "completion_time": 41.5
    },
    {
      "project": {
        "id": "proj-002",
        "title": "Dashboard UI",
        "complexity": "low",
        "priority": "medium",
        "required_agents": ["backend"],
        "plan": {
          "type": "standard",
          "task_breakdown": "1. Scaffold components\n2. Wire data",
          "subtasks": [
            {"title": "Scaffold components", "agent": "backend", "priority": "high"}
          ],
          "dependencies": [],
          "assignments": [],
          "success": true
        }
      },
      "tasks_completed": 4,
      "success_rate": 1.0,
      "outputs_generated": 3,
      "completion_time": 30.0
    }
  ],
  "system_status": "operational"
}`

func testReport(t *testing.T) *models.SessionReport {
	t.Helper()
	doc, err := report.Decode(strings.NewReader(toolTestReport))
	if err != nil {
		t.Fatalf("decode test report: %v", err)
	}
	return doc
}

func testArchive(t *testing.T) store.ReportStore {
	t.Helper()
	s := store.NewFileReportStore()
	if err := s.Initialize(map[string]string{"dataFile": t.TempDir() + "/sessions.json"}); err != nil {
		t.Fatalf("initialize archive: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testIndex(t *testing.T) memory.IndexStore {
	t.Helper()
	idx, err := memory.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func callParams[T any](args T) *mcpsdk.CallToolParamsFor[T] {
	return &mcpsdk.CallToolParamsFor[T]{Arguments: args}
}

func TestSessionSummaryTool(t *testing.T) {
	archive := testArchive(t)
	doc := testReport(t)

	entry := models.ArchivedSession{
		IngestedAt:     time.Now().UTC(),
		Report:         *doc,
		OverallSuccess: report.OverallSuccess(doc),
		DegradedPlans:  len(report.DegradedProjects(doc)),
	}
	saved, err := archive.SaveReport(entry)
	if err != nil {
		t.Fatalf("save report: %v", err)
	}

	handler := sessionSummaryHandler(archive)
	result, err := handler(context.Background(), nil, callParams(types.SessionSummaryParams{ID: saved.ID}))
	if err != nil {
		t.Fatalf("session-summary error = %v", err)
	}

	resp := result.StructuredContent
	if resp.Session.ID != saved.ID {
		t.Errorf("session ID = %q, want %q", resp.Session.ID, saved.ID)
	}
	if resp.Session.Projects != 2 {
		t.Errorf("projects = %d, want 2", resp.Session.Projects)
	}
	if resp.Session.DegradedPlans != 1 {
		t.Errorf("degraded plans = %d, want 1", resp.Session.DegradedPlans)
	}
	if len(resp.ProjectNames) != 2 || resp.ProjectNames[0] != "Inventory API" {
		t.Errorf("project names = %v", resp.ProjectNames)
	}
	if len(resp.DegradedNames) != 1 || resp.DegradedNames[0] != "proj-001" {
		t.Errorf("degraded names = %v", resp.DegradedNames)
	}
	if got := resp.AgentWorkloads["backend"]; got != 1 {
		t.Errorf("backend workload = %d, want 1", got)
	}
}

func TestSessionSummaryToolMissingID(t *testing.T) {
	handler := sessionSummaryHandler(testArchive(t))
	_, err := handler(context.Background(), nil, callParams(types.SessionSummaryParams{}))
	if err == nil {
		t.Fatal("expected error for missing ID")
	}
	var mcpErr *types.MCPError
	if !errors.As(err, &mcpErr) || mcpErr.Code != "MISSING_ID" {
		t.Errorf("error = %v, want MISSING_ID", err)
	}
}

func TestSessionSummaryToolNotFound(t *testing.T) {
	handler := sessionSummaryHandler(testArchive(t))
	_, err := handler(context.Background(), nil, callParams(types.SessionSummaryParams{ID: "nope"}))
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	var mcpErr *types.MCPError
	if !errors.As(err, &mcpErr) || mcpErr.Code != "SESSION_NOT_FOUND" {
		t.Errorf("error = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestListSessionsTool(t *testing.T) {
	idx := testIndex(t)
	doc := testReport(t)
	if _, err := idx.IndexReport("", "a.json", doc); err != nil {
		t.Fatalf("index report: %v", err)
	}
	if _, err := idx.IndexReport("", "b.json", doc); err != nil {
		t.Fatalf("index report: %v", err)
	}

	handler := listSessionsHandler(idx)
	result, err := handler(context.Background(), nil, callParams(types.ListSessionsParams{}))
	if err != nil {
		t.Fatalf("list-sessions error = %v", err)
	}
	if result.StructuredContent.Count != 2 {
		t.Errorf("count = %d, want 2", result.StructuredContent.Count)
	}

	result, err = handler(context.Background(), nil, callParams(types.ListSessionsParams{Limit: 1}))
	if err != nil {
		t.Fatalf("list-sessions limit error = %v", err)
	}
	if result.StructuredContent.Count != 1 {
		t.Errorf("limited count = %d, want 1", result.StructuredContent.Count)
	}
}

func TestListSessionsToolDegradedOnly(t *testing.T) {
	idx := testIndex(t)
	doc := testReport(t)
	if _, err := idx.IndexReport("", "a.json", doc); err != nil {
		t.Fatalf("index report: %v", err)
	}

	clean := testReport(t)
	clean.ProjectDetails = clean.ProjectDetails[1:]
	if _, err := idx.IndexReport("", "b.json", clean); err != nil {
		t.Fatalf("index clean report: %v", err)
	}

	handler := listSessionsHandler(idx)
	result, err := handler(context.Background(), nil, callParams(types.ListSessionsParams{DegradedOnly: true}))
	if err != nil {
		t.Fatalf("list-sessions degraded error = %v", err)
	}
	if result.StructuredContent.Count != 1 {
		t.Errorf("degraded count = %d, want 1", result.StructuredContent.Count)
	}
	if got := result.StructuredContent.Sessions[0].DegradedPlans; got != 1 {
		t.Errorf("degraded plans = %d, want 1", got)
	}
}

func TestAgentPerformanceTool(t *testing.T) {
	idx := testIndex(t)
	doc := testReport(t)
	if _, err := idx.IndexReport("", "a.json", doc); err != nil {
		t.Fatalf("index report: %v", err)
	}

	handler := agentPerformanceHandler(idx)
	result, err := handler(context.Background(), nil, callParams(types.AgentPerformanceParams{}))
	if err != nil {
		t.Fatalf("agent-performance error = %v", err)
	}
	if result.StructuredContent.Count != 2 {
		t.Errorf("roles = %d, want 2", result.StructuredContent.Count)
	}

	result, err = handler(context.Background(), nil, callParams(types.AgentPerformanceParams{Role: "backend"}))
	if err != nil {
		t.Fatalf("agent-performance role filter error = %v", err)
	}
	if result.StructuredContent.Count != 1 {
		t.Fatalf("filtered roles = %d, want 1", result.StructuredContent.Count)
	}
	agent := result.StructuredContent.Agents[0]
	if agent.Role != "backend" || agent.Experiences != 4 || agent.Successful != 3 {
		t.Errorf("backend totals = %+v", agent)
	}

	if _, err := handler(context.Background(), nil, callParams(types.AgentPerformanceParams{Role: "qa"})); err == nil {
		t.Error("expected error for role with no indexed stats")
	}
}

func TestLintReportTool(t *testing.T) {
	handler := lintReportHandler()

	result, err := handler(context.Background(), nil, callParams(types.LintReportParams{Report: toolTestReport}))
	if err != nil {
		t.Fatalf("lint-report error = %v", err)
	}
	resp := result.StructuredContent
	if !resp.Valid {
		t.Errorf("valid = false, findings = %+v", resp.Findings)
	}
	// proj-001 carries a placeholder plan, so a warning is expected.
	if resp.Warnings == 0 {
		t.Error("expected at least one warning for the degraded plan")
	}
}

func TestLintReportToolStrictUnknownField(t *testing.T) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(toolTestReport), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	doc["surprise"] = json.RawMessage(`true`)
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	handler := lintReportHandler()
	if _, err := handler(context.Background(), nil, callParams(types.LintReportParams{Report: string(raw), Strict: true})); err == nil {
		t.Error("expected strict decode to reject unknown field")
	}
}

func TestLintReportToolMissingDocument(t *testing.T) {
	handler := lintReportHandler()
	_, err := handler(context.Background(), nil, callParams(types.LintReportParams{}))
	if err == nil {
		t.Fatal("expected error for empty report")
	}
}

func TestRegisterToolsLogsVersionBanner(t *testing.T) {
	var logged []string
	ConfigureHooks(Hooks{
		LogInfo:    func(msg string) { logged = append(logged, msg) },
		GetVersion: func() string { return "9.9.9-test" },
	})
	t.Cleanup(func() {
		ConfigureHooks(Hooks{
			LogInfo:    func(string) {},
			GetVersion: func() string { return "dev" },
		})
	})

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "sessionlens", Version: "9.9.9-test"}, &mcpsdk.ServerOptions{})
	if err := RegisterTools(server, testArchive(t), testIndex(t)); err != nil {
		t.Fatalf("RegisterTools failed: %v", err)
	}

	found := false
	for _, msg := range logged {
		if strings.Contains(msg, "9.9.9-test") {
			found = true
		}
	}
	if !found {
		t.Errorf("startup log never mentioned the injected version, got %v", logged)
	}
}
