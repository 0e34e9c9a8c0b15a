package memory

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/itzcole03/sessionlens/internal/report"
	"github.com/itzcole03/sessionlens/models"
)

// ErrSessionNotFound is returned when an indexed session does not exist.
var ErrSessionNotFound = errors.New("session not indexed")

// SQLiteStore implements IndexStore using SQLite for persistence.
type SQLiteStore struct {
	db       *sql.DB
	basePath string // Path to the .sessionlens/index directory
}

// NewSQLiteStore creates a new SQLite-backed session index.
// Pass ":memory:" as basePath for an ephemeral index (tests).
func NewSQLiteStore(basePath string) (*SQLiteStore, error) {
	var dbPath string
	if basePath == ":memory:" {
		dbPath = ":memory:"
	} else {
		dbPath = filepath.Join(basePath, "index.db")
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	store := &SQLiteStore{
		db:       db,
		basePath: basePath,
	}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,            -- Report timestamp, verbatim
		system_status TEXT NOT NULL,
		projects INTEGER NOT NULL DEFAULT 0,
		tasks_executed INTEGER NOT NULL DEFAULT 0,
		files_generated INTEGER NOT NULL DEFAULT 0,
		agents_active INTEGER NOT NULL DEFAULT 0,
		overall_success REAL NOT NULL DEFAULT 0,
		degraded_plans INTEGER NOT NULL DEFAULT 0,
		source_path TEXT DEFAULT '',
		ingested_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_stats (
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		experiences_count INTEGER NOT NULL DEFAULT 0,
		successful_tasks INTEGER NOT NULL DEFAULT 0,
		specialization TEXT,                -- JSON array
		status TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
		PRIMARY KEY (session_id, role)
	);

	CREATE TABLE IF NOT EXISTS projects (
		session_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL,
		complexity TEXT,
		priority TEXT,
		tasks_completed INTEGER NOT NULL DEFAULT 0,
		success_rate REAL NOT NULL DEFAULT 0,
		outputs_generated INTEGER NOT NULL DEFAULT 0,
		completion_time REAL NOT NULL DEFAULT 0,
		plan_degraded INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
		PRIMARY KEY (session_id, project_id)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_ingested ON sessions(ingested_at);
	CREATE INDEX IF NOT EXISTS idx_agent_stats_role ON agent_stats(role);
	CREATE INDEX IF NOT EXISTS idx_projects_degraded ON projects(plan_degraded);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// IndexReport records a decoded report under the given ingest ID.
func (s *SQLiteStore) IndexReport(id, sourcePath string, r *models.SessionReport) (SessionRow, error) {
	if id == "" {
		id = uuid.NewString()
	}

	summary := report.Summarize(r)
	now := time.Now().UTC()

	row := SessionRow{
		ID:             id,
		Timestamp:      string(r.Timestamp),
		SystemStatus:   string(r.SystemStatus),
		Projects:       len(r.ProjectDetails),
		TasksExecuted:  r.Session.TasksExecuted,
		FilesGenerated: r.Session.FilesGenerated,
		AgentsActive:   r.Session.AgentsActive,
		OverallSuccess: summary.OverallSuccess,
		DegradedPlans:  summary.DegradedPlans,
		SourcePath:     sourcePath,
		IngestedAt:     now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SessionRow{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO sessions
		(id, timestamp, system_status, projects, tasks_executed, files_generated, agents_active, overall_success, degraded_plans, source_path, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Timestamp, row.SystemStatus, row.Projects, row.TasksExecuted,
		row.FilesGenerated, row.AgentsActive, row.OverallSuccess, row.DegradedPlans,
		row.SourcePath, now.Format(time.RFC3339Nano))
	if err != nil {
		return SessionRow{}, fmt.Errorf("insert session: %w", err)
	}

	for role, stats := range r.AgentStats {
		spec, err := json.Marshal(stats.Specialization)
		if err != nil {
			return SessionRow{}, fmt.Errorf("marshal specialization for %s: %w", role, err)
		}
		_, err = tx.Exec(`INSERT INTO agent_stats
			(session_id, role, experiences_count, successful_tasks, specialization, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			row.ID, role, stats.ExperiencesCount, stats.SuccessfulTasks, string(spec), string(stats.Status))
		if err != nil {
			return SessionRow{}, fmt.Errorf("insert agent stats for %s: %w", role, err)
		}
	}

	for _, outcome := range r.ProjectDetails {
		degraded := 0
		if report.IsDegradedPlan(outcome.Project.Plan) {
			degraded = 1
		}
		_, err = tx.Exec(`INSERT INTO projects
			(session_id, project_id, title, complexity, priority, tasks_completed, success_rate, outputs_generated, completion_time, plan_degraded)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, outcome.Project.ID, outcome.Project.Title, string(outcome.Project.Complexity),
			string(outcome.Project.Priority), outcome.TasksCompleted, outcome.SuccessRate,
			outcome.OutputsGenerated, outcome.CompletionTime, degraded)
		if err != nil {
			return SessionRow{}, fmt.Errorf("insert project %s: %w", outcome.Project.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SessionRow{}, fmt.Errorf("commit session index: %w", err)
	}
	return row, nil
}

const sessionColumns = `id, timestamp, system_status, projects, tasks_executed, files_generated, agents_active, overall_success, degraded_plans, source_path, ingested_at`

func scanSession(scanner interface{ Scan(...any) error }) (SessionRow, error) {
	var row SessionRow
	var ingestedAt string
	err := scanner.Scan(&row.ID, &row.Timestamp, &row.SystemStatus, &row.Projects,
		&row.TasksExecuted, &row.FilesGenerated, &row.AgentsActive,
		&row.OverallSuccess, &row.DegradedPlans, &row.SourcePath, &ingestedAt)
	if err != nil {
		return SessionRow{}, err
	}
	if t, parseErr := time.Parse(time.RFC3339Nano, ingestedAt); parseErr == nil {
		row.IngestedAt = t
	}
	return row, nil
}

// GetSession returns one indexed session by ingest ID.
func (s *SQLiteStore) GetSession(id string) (SessionRow, error) {
	row, err := scanSession(s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRow{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return SessionRow{}, fmt.Errorf("query session: %w", err)
	}
	return row, nil
}

func (s *SQLiteStore) querySessions(query string, args ...any) ([]SessionRow, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []SessionRow
	for rows.Next() {
		row, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, row)
	}
	return sessions, rows.Err()
}

// ListSessions returns indexed sessions, newest ingest first.
func (s *SQLiteStore) ListSessions() ([]SessionRow, error) {
	return s.querySessions(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY ingested_at DESC`)
}

// DegradedSessions returns sessions containing at least one placeholder
// plan, newest first.
func (s *SQLiteStore) DegradedSessions() ([]SessionRow, error) {
	return s.querySessions(`SELECT ` + sessionColumns + ` FROM sessions WHERE degraded_plans > 0 ORDER BY ingested_at DESC`)
}

// SessionAgents returns the per-agent rows for one session.
func (s *SQLiteStore) SessionAgents(sessionID string) ([]AgentRow, error) {
	rows, err := s.db.Query(`SELECT session_id, role, experiences_count, successful_tasks, specialization, status
		FROM agent_stats WHERE session_id = ? ORDER BY role`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query agent stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var agents []AgentRow
	for rows.Next() {
		var a AgentRow
		var spec sql.NullString
		if err := rows.Scan(&a.SessionID, &a.Role, &a.ExperiencesCount, &a.SuccessfulTasks, &spec, &a.Status); err != nil {
			return nil, fmt.Errorf("scan agent stats: %w", err)
		}
		if spec.Valid && spec.String != "" {
			if err := json.Unmarshal([]byte(spec.String), &a.Specialization); err != nil {
				return nil, fmt.Errorf("unmarshal specialization for %s: %w", a.Role, err)
			}
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// SessionProjects returns the project rows for one session.
func (s *SQLiteStore) SessionProjects(sessionID string) ([]ProjectRow, error) {
	rows, err := s.db.Query(`SELECT session_id, project_id, title, complexity, priority, tasks_completed, success_rate, outputs_generated, completion_time, plan_degraded
		FROM projects WHERE session_id = ? ORDER BY project_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []ProjectRow
	for rows.Next() {
		var p ProjectRow
		var degraded int
		if err := rows.Scan(&p.SessionID, &p.ProjectID, &p.Title, &p.Complexity, &p.Priority,
			&p.TasksCompleted, &p.SuccessRate, &p.Outputs, &p.CompletionTime, &degraded); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.PlanDegraded = degraded != 0
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// AgentTotals aggregates per-role stats across all indexed sessions.
func (s *SQLiteStore) AgentTotals() ([]AgentTotal, error) {
	rows, err := s.db.Query(`SELECT role, COUNT(DISTINCT session_id), SUM(experiences_count), SUM(successful_tasks)
		FROM agent_stats GROUP BY role ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("query agent totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []AgentTotal
	for rows.Next() {
		var t AgentTotal
		if err := rows.Scan(&t.Role, &t.Sessions, &t.ExperiencesCount, &t.SuccessfulTasks); err != nil {
			return nil, fmt.Errorf("scan agent totals: %w", err)
		}
		if t.ExperiencesCount > 0 {
			t.SuccessRatio = float64(t.SuccessfulTasks) / float64(t.ExperiencesCount)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
