package memory

import "github.com/itzcole03/sessionlens/models"

// IndexStore is the contract for the session index.
type IndexStore interface {
	// IndexReport records a decoded report under the given ingest ID.
	// An empty ID gets a generated one. Returns the indexed row.
	IndexReport(id, sourcePath string, report *models.SessionReport) (SessionRow, error)

	// GetSession returns one indexed session by ingest ID.
	GetSession(id string) (SessionRow, error)

	// ListSessions returns indexed sessions, newest ingest first.
	ListSessions() ([]SessionRow, error)

	// SessionAgents returns the per-agent rows for one session.
	SessionAgents(sessionID string) ([]AgentRow, error)

	// SessionProjects returns the project rows for one session.
	SessionProjects(sessionID string) ([]ProjectRow, error)

	// AgentTotals aggregates per-role stats across all indexed sessions.
	AgentTotals() ([]AgentTotal, error)

	// DegradedSessions returns sessions containing at least one
	// placeholder plan, newest first.
	DegradedSessions() ([]SessionRow, error)

	// Close releases the underlying database handle.
	Close() error
}
