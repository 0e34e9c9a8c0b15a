package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults registers the default configuration values with Viper.
// Precedence stays: explicit config > environment > these defaults.
func SetDefaults() {
	viper.SetDefault("project.rootDir", DefaultRootDir)
	viper.SetDefault("project.reportsDir", DefaultReportsDir)
	viper.SetDefault("project.policiesDir", filepath.Join(DefaultRootDir, DefaultPoliciesDir))
	viper.SetDefault("data.file", DefaultArchiveFile)
	viper.SetDefault("data.format", DefaultArchiveFormat)
	viper.SetDefault("index.dir", filepath.Join(DefaultRootDir, DefaultIndexDir))
	viper.SetDefault("generator.ollamaURL", DefaultOllamaURL)
	viper.SetDefault("generator.lmStudioURL", DefaultLMStudioURL)
	viper.SetDefault("generator.probeTimeoutSeconds", DefaultProbeTimeoutSeconds)
	viper.SetDefault("telemetry.enabled", false)
}
