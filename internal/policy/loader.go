package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// PolicyFile represents a loaded Rego policy file.
type PolicyFile struct {
	// Path is the path to the policy file.
	Path string `json:"path"`
	// Name is the base name of the file without extension.
	Name string `json:"name"`
	// Content is the raw Rego source code.
	Content string `json:"content"`
}

// Loader scans and loads .rego policy files from the configured directory.
// It uses an afero.Fs interface for filesystem operations, enabling easy
// testing with in-memory filesystems.
type Loader struct {
	fs      afero.Fs
	baseDir string
}

// NewLoader creates a new policy loader using the provided filesystem.
// Use afero.NewOsFs() for real filesystem operations, or
// afero.NewMemMapFs() for testing.
func NewLoader(fs afero.Fs, baseDir string) *Loader {
	return &Loader{
		fs:      fs,
		baseDir: baseDir,
	}
}

// NewOsLoader creates a Loader using the real operating system filesystem.
func NewOsLoader(baseDir string) *Loader {
	return NewLoader(afero.NewOsFs(), baseDir)
}

// LoadAll loads all .rego policy files from the configured directory,
// scanning subdirectories recursively. A missing directory yields an empty
// slice, not an error.
func (l *Loader) LoadAll() ([]*PolicyFile, error) {
	exists, err := afero.DirExists(l.fs, l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("check policies directory: %w", err)
	}
	if !exists {
		return []*PolicyFile{}, nil
	}

	var policies []*PolicyFile

	err = afero.Walk(l.fs, l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(info.Name(), ".rego") {
			return nil
		}

		content, readErr := afero.ReadFile(l.fs, path)
		if readErr != nil {
			return fmt.Errorf("read policy %s: %w", path, readErr)
		}

		policies = append(policies, &PolicyFile{
			Path:    path,
			Name:    strings.TrimSuffix(info.Name(), filepath.Ext(info.Name())),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan policies directory: %w", err)
	}

	return policies, nil
}
