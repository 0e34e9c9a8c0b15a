// Package config provides centralized configuration constants for
// sessionlens. All default values should be defined here to ensure a single
// source of truth.
package config

// Local generation backend endpoints. The upstream session planner talks to
// one of these; sessionlens only probes them to diagnose placeholder plans.
const (
	// DefaultOllamaURL is the default URL for an Ollama server
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultLMStudioURL is the default URL for an LM Studio server
	DefaultLMStudioURL = "http://localhost:1234"

	// DefaultProbeTimeoutSeconds bounds each doctor endpoint probe
	DefaultProbeTimeoutSeconds = 3
)

// Default project layout
const (
	// DefaultRootDir is the per-project state directory
	DefaultRootDir = ".sessionlens"

	// DefaultReportsDir is where session report drops are expected
	DefaultReportsDir = "reports"

	// DefaultPoliciesDir holds .rego gate policies, relative to RootDir
	DefaultPoliciesDir = "policies"

	// DefaultIndexDir holds the SQLite session index, relative to RootDir
	DefaultIndexDir = "index"

	// DefaultArchiveFile is the archive data file name
	DefaultArchiveFile = "sessions.json"

	// DefaultArchiveFormat is the archive serialization format
	DefaultArchiveFormat = "json"
)
