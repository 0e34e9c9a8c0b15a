package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/itzcole03/sessionlens/models"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultDataFile   = "sessions.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// ErrReportNotFound is returned when an archived session does not exist.
var ErrReportNotFound = errors.New("archived session not found")

// archiveFile is the on-disk envelope for the archive.
type archiveFile struct {
	Sessions   []models.ArchivedSession `json:"sessions" yaml:"sessions" toml:"sessions"`
	TotalCount int                      `json:"totalCount" yaml:"totalCount" toml:"totalCount"`
}

// FileReportStore implements the ReportStore interface using a file backend.
// It supports JSON, YAML, and TOML formats and uses file-level locking.
type FileReportStore struct {
	filePath string
	sessions map[string]models.ArchivedSession
	flk      *flock.Flock
	format   string
}

// NewFileReportStore creates a new instance of FileReportStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileReportStore() *FileReportStore {
	return &FileReportStore{
		sessions: make(map[string]models.ArchivedSession),
	}
}

// Initialize configures the FileReportStore. It expects a 'dataFile' key in
// the config map; if absent it defaults to 'sessions.json' in the working
// directory. Existing data is loaded and a file lock established.
func (s *FileReportStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)
	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.sessions = make(map[string]models.ArchivedSession)
	return s.loadFromFileInternal()
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadFromFileInternal reads the archive, verifies checksum, and unmarshals.
// Assumes the file lock is held.
func (s *FileReportStore) loadFromFileInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.sessions = make(map[string]models.ArchivedSession)
			_ = os.Remove(checksumFilePath)
			if f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644); createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			} else {
				_ = f.Close()
			}
			_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		actualChecksum := calculateChecksum(data)
		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actualChecksum)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}

	if len(data) == 0 {
		_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		s.sessions = make(map[string]models.ArchivedSession)
		return nil
	}

	var archive archiveFile
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &archive); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &archive); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &archive); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.sessions = make(map[string]models.ArchivedSession, len(archive.Sessions))
	for _, entry := range archive.Sessions {
		s.sessions[entry.ID] = entry
	}
	return nil
}

// saveToFileInternal writes the archive to file, then writes its checksum.
// Assumes the file lock is held.
func (s *FileReportStore) saveToFileInternal() error {
	archive := archiveFile{
		Sessions:   make([]models.ArchivedSession, 0, len(s.sessions)),
		TotalCount: len(s.sessions),
	}
	for _, entry := range s.sessions {
		archive.Sessions = append(archive.Sessions, entry)
	}
	sort.Slice(archive.Sessions, func(i, j int) bool {
		return archive.Sessions[i].IngestedAt.Before(archive.Sessions[j].IngestedAt)
	})

	var marshaledData []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(archive, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(archive)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(archive); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal archive to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}

	actualChecksum := calculateChecksum(marshaledData)
	if err := os.WriteFile(tempChecksumFilePath, []byte(actualChecksum), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}

	return nil
}

// generateID creates a new universally unique identifier string.
func generateID() string {
	return uuid.NewString()
}

// SaveReport archives an ingested session.
func (s *FileReportStore) SaveReport(entry models.ArchivedSession) (models.ArchivedSession, error) {
	if err := s.flk.Lock(); err != nil {
		return models.ArchivedSession{}, fmt.Errorf("could not lock file for save: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return models.ArchivedSession{}, fmt.Errorf("failed to reload archive before save: %w", err)
	}

	if entry.ID == "" {
		entry.ID = generateID()
	} else if _, exists := s.sessions[entry.ID]; exists {
		return models.ArchivedSession{}, fmt.Errorf("archived session with ID '%s' already exists", entry.ID)
	}
	if entry.IngestedAt.IsZero() {
		entry.IngestedAt = time.Now().UTC()
	}

	if err := models.ValidateStruct(entry); err != nil {
		return models.ArchivedSession{}, fmt.Errorf("archived session failed validation: %w", err)
	}

	s.sessions[entry.ID] = entry
	if err := s.saveToFileInternal(); err != nil {
		delete(s.sessions, entry.ID)
		return models.ArchivedSession{}, fmt.Errorf("failed to persist archive: %w", err)
	}
	return entry, nil
}

// GetReport retrieves an archived session by its ingest ID.
func (s *FileReportStore) GetReport(id string) (models.ArchivedSession, error) {
	if err := s.flk.RLock(); err != nil {
		return models.ArchivedSession{}, fmt.Errorf("could not lock file for read: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return models.ArchivedSession{}, fmt.Errorf("failed to reload archive: %w", err)
	}

	entry, ok := s.sessions[id]
	if !ok {
		return models.ArchivedSession{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	return entry, nil
}

// ListReports returns compact summaries of all archived sessions,
// newest ingest first.
func (s *FileReportStore) ListReports() ([]models.ArchiveSummary, error) {
	if err := s.flk.RLock(); err != nil {
		return nil, fmt.Errorf("could not lock file for list: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return nil, fmt.Errorf("failed to reload archive: %w", err)
	}

	summaries := make([]models.ArchiveSummary, 0, len(s.sessions))
	for _, entry := range s.sessions {
		summaries = append(summaries, entry.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].IngestedAt.After(summaries[j].IngestedAt)
	})
	return summaries, nil
}

// DeleteReport removes an archived session by its ingest ID.
func (s *FileReportStore) DeleteReport(id string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for delete: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return fmt.Errorf("failed to reload archive before delete: %w", err)
	}

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	delete(s.sessions, id)
	return s.saveToFileInternal()
}

// Backup copies the current archive file to the destination path.
func (s *FileReportStore) Backup(destinationPath string) error {
	if err := s.flk.RLock(); err != nil {
		return fmt.Errorf("could not lock file for backup: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read archive for backup: %w", err)
	}
	if dir := filepath.Dir(destinationPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create backup directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(destinationPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup to %s: %w", destinationPath, err)
	}
	return nil
}

// Restore replaces the archive with data from the source path.
func (s *FileReportStore) Restore(sourcePath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for restore: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read restore source %s: %w", sourcePath, err)
	}
	if err := os.WriteFile(s.filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write restored archive: %w", err)
	}
	if err := os.WriteFile(s.filePath+checksumSuffix, []byte(calculateChecksum(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write restored checksum: %w", err)
	}
	return s.loadFromFileInternal()
}

// Close releases the file lock.
func (s *FileReportStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
