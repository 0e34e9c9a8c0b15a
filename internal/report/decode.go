// Package report provides decoding, linting, and derived metrics for
// autonomous-session report documents.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/itzcole03/sessionlens/models"
)

// Decode reads a session report from r. Unknown fields are ignored so that
// reports from newer producers still load.
func Decode(r io.Reader) (*models.SessionReport, error) {
	var report models.SessionReport
	dec := json.NewDecoder(r)
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("decode session report: %w", err)
	}
	return &report, nil
}

// DecodeStrict reads a session report from r and rejects unknown fields.
// Use this when the document must match the known schema bit-for-bit.
func DecodeStrict(r io.Reader) (*models.SessionReport, error) {
	var report models.SessionReport
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("decode session report (strict): %w", err)
	}
	return &report, nil
}

// Load reads and decodes a report file from disk.
func Load(path string) (*models.SessionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// LoadStrict reads and strictly decodes a report file from disk.
func LoadStrict(path string) (*models.SessionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file %s: %w", path, err)
	}
	return DecodeStrict(bytes.NewReader(data))
}

// Encode writes the report as indented JSON with a trailing newline, the
// formatting the upstream session emits.
func Encode(w io.Writer, report *models.SessionReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode session report: %w", err)
	}
	return nil
}

// Marshal returns the indented JSON encoding of the report.
func Marshal(report *models.SessionReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
