package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/itzcole03/sessionlens/internal/memory"
	"github.com/itzcole03/sessionlens/store"
)

const ingestTestReport = `{
  "timestamp": "2025-08-05T14:30:00.123456",
  "autonomous_session": {
    "projects_completed": 1,
    "tasks_executed": 4,
    "average_success_rate": 100.0,
    "files_generated": 3,
    "agents_active": 1
  },
  "memory_intelligence": {
    "profiles_loaded": 5,
    "experiences_stored": 4,
    "knowledge_base_active": true,
    "vector_db_connected": true
  },
  "agent_performance": {
    "backend": {
      "experiences_count": 4,
      "successful_tasks": 4,
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
        "required_agents": ["backend"],
        "plan": {
          "type": "standard",
          "task_breakdown": "1. Design schema\n2. Build endpoints",
          "subtasks": [
            {"title": "Design schema", "agent": "backend", "priority": "high"}
          ],
          "dependencies": [],
          "assignments": [],
          "success": true
        }
      },
      "tasks_completed": 4,
      "success_rate": 1.0,
      "outputs_generated": 3,
      "completion_time": 41.5
    }
  ],
  "system_status": "operational"
}`

func newIngestStores(t *testing.T) (store.ReportStore, memory.IndexStore) {
	t.Helper()

	archive := store.NewFileReportStore()
	if err := archive.Initialize(map[string]string{
		"dataFile": filepath.Join(t.TempDir(), "sessions.json"),
	}); err != nil {
		t.Fatalf("initialize archive: %v", err)
	}
	t.Cleanup(func() { _ = archive.Close() })

	index, err := memory.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { _ = index.Close() })

	return archive, index
}

func writeReportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session_report.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write report file: %v", err)
	}
	return path
}

func TestIngestFile(t *testing.T) {
	archive, index := newIngestStores(t)
	path := writeReportFile(t, ingestTestReport)

	entry, result, err := ingestFile(archive, index, path, false)
	if err != nil {
		t.Fatalf("ingestFile() error = %v (findings %+v)", err, result)
	}
	if entry.ID == "" {
		t.Error("ingested entry has empty ID")
	}
	if entry.OverallSuccess != 1.0 {
		t.Errorf("OverallSuccess = %v, want 1.0", entry.OverallSuccess)
	}

	// The document must be retrievable from both the archive and the index.
	if _, err := archive.GetReport(entry.ID); err != nil {
		t.Errorf("archive.GetReport() error = %v", err)
	}
	row, err := index.GetSession(entry.ID)
	if err != nil {
		t.Fatalf("index.GetSession() error = %v", err)
	}
	if row.Projects != 1 {
		t.Errorf("indexed projects = %d, want 1", row.Projects)
	}
	if row.SourcePath != path {
		t.Errorf("indexed source path = %q, want %q", row.SourcePath, path)
	}
}

func TestIngestFileRejectsInvalid(t *testing.T) {
	archive, index := newIngestStores(t)

	// success_rate above 1.0 is a schema violation.
	bad := writeReportFile(t, `{
  "timestamp": "2025-08-05T14:30:00",
  "autonomous_session": {"projects_completed": 0, "tasks_executed": 0, "average_success_rate": 0, "files_generated": 0, "agents_active": 0},
  "memory_intelligence": {"profiles_loaded": 0, "experiences_stored": 0, "knowledge_base_active": false, "vector_db_connected": false},
  "agent_performance": {},
  "project_details": [
    {
      "project": {
        "id": "p1", "title": "Bad", "complexity": "low", "priority": "low",
        "required_agents": [],
        "plan": {"type": "standard", "task_breakdown": "x", "subtasks": [], "dependencies": [], "assignments": [], "success": true}
      },
      "tasks_completed": 0, "success_rate": 1.5, "outputs_generated": 0, "completion_time": 0
    }
  ],
  "system_status": "operational"
}`)

	_, result, err := ingestFile(archive, index, bad, false)
	if err == nil {
		t.Fatal("expected invalid report to be rejected")
	}
	if result == nil || !result.HasErrors() {
		t.Errorf("expected lint errors, got %+v", result)
	}

	rows, err := index.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rejected report was indexed: %d rows", len(rows))
	}
}

func TestIngestFileMissingFile(t *testing.T) {
	archive, index := newIngestStores(t)
	if _, _, err := ingestFile(archive, index, filepath.Join(t.TempDir(), "absent.json"), false); err == nil {
		t.Fatal("expected error for missing file")
	}
}
