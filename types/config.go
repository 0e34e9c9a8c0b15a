package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Project   ProjectConfig   `mapstructure:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Index     IndexConfig     `mapstructure:"index" validate:"required"`
	Generator GeneratorConfig `mapstructure:"generator" validate:"omitempty"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir     string `mapstructure:"rootDir" validate:"required"`
	ReportsDir  string `mapstructure:"reportsDir" validate:"required"`
	PoliciesDir string `mapstructure:"policiesDir"`
}

// DataConfig holds archive storage configuration
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// IndexConfig holds the session index (SQLite) configuration
type IndexConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// GeneratorConfig holds the endpoints of the local generation backends the
// upstream session depends on. sessionlens only probes them (doctor) to
// explain placeholder plans; it never invokes a model.
type GeneratorConfig struct {
	OllamaURL   string `mapstructure:"ollamaURL" validate:"omitempty,url"`
	LMStudioURL string `mapstructure:"lmStudioURL" validate:"omitempty,url"`
	// ProbeTimeoutSeconds controls the HTTP timeout for doctor probes
	ProbeTimeoutSeconds int `mapstructure:"probeTimeoutSeconds" validate:"omitempty,min=1,max=60"`
}

// TelemetryConfig holds anonymous usage analytics settings
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"apiKey"`
}
