package store

import "github.com/itzcole03/sessionlens/models"

// ReportStore defines the interface for archived session persistence.
// It outlines the contract for ingesting report documents, retrieval,
// listing, backup, restore, and resource cleanup.
type ReportStore interface {
	// Initialize configures the store with necessary parameters, such as
	// file path and data format. It must be called before any other
	// store operations.
	Initialize(config map[string]string) error

	// SaveReport archives an ingested session. An empty ID is filled in
	// with a generated one. It returns the stored record or an error if
	// the ID already exists or the write fails.
	SaveReport(entry models.ArchivedSession) (models.ArchivedSession, error)

	// GetReport retrieves an archived session by its ingest ID.
	GetReport(id string) (models.ArchivedSession, error)

	// ListReports returns compact summaries of all archived sessions,
	// newest ingest first.
	ListReports() ([]models.ArchiveSummary, error)

	// DeleteReport removes an archived session by its ingest ID.
	DeleteReport(id string) error

	// Backup copies the current archive to the destination path.
	Backup(destinationPath string) error

	// Restore replaces the archive with data from the source path.
	// This operation is destructive to current data.
	Restore(sourcePath string) error

	// Close releases any resources held by the store, such as file locks.
	Close() error
}
