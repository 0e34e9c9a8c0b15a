package models

import "time"

// ArchivedSession is one ingested session report plus ingest metadata.
// The report document itself is stored verbatim; everything else is derived
// at ingest time for fast listing.
type ArchivedSession struct {
	ID             string        `json:"id" validate:"required,uuid4"`
	SourcePath     string        `json:"sourcePath,omitempty"`
	IngestedAt     time.Time     `json:"ingestedAt" validate:"required"`
	Report         SessionReport `json:"report"`
	OverallSuccess float64       `json:"overallSuccess"`
	DegradedPlans  int           `json:"degradedPlans"`
}

// ArchiveSummary is a compact listing record for an archived session.
type ArchiveSummary struct {
	ID             string    `json:"id"`
	Timestamp      Timestamp `json:"timestamp"`
	SystemStatus   string    `json:"systemStatus"`
	Projects       int       `json:"projects"`
	OverallSuccess float64   `json:"overallSuccess"`
	DegradedPlans  int       `json:"degradedPlans"`
	IngestedAt     time.Time `json:"ingestedAt"`
}

// Summary derives the compact listing record.
func (a ArchivedSession) Summary() ArchiveSummary {
	return ArchiveSummary{
		ID:             a.ID,
		Timestamp:      a.Report.Timestamp,
		SystemStatus:   string(a.Report.SystemStatus),
		Projects:       len(a.Report.ProjectDetails),
		OverallSuccess: a.OverallSuccess,
		DegradedPlans:  a.DegradedPlans,
		IngestedAt:     a.IngestedAt,
	}
}
