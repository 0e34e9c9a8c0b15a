package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itzcole03/sessionlens/internal/config"
	"github.com/itzcole03/sessionlens/internal/logger"
	"github.com/itzcole03/sessionlens/internal/memory"
	"github.com/itzcole03/sessionlens/models"
	"github.com/itzcole03/sessionlens/store"
	"github.com/itzcole03/sessionlens/types"
)

const (
	configName = ".sessionlens"
	envPrefix  = "SESSIONLENS"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// InitConfig reads in the config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. Missing files are fine.
	_ = godotenv.Load()

	// Environment variable handling must be set up before reading the
	// config file so env vars can influence config loading.
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	// The config file lives inside the project root dir, so we need a
	// candidate root before the full unmarshal to locate the file itself.
	potentialConfigDir := viper.GetString("project.rootDir")
	if potentialConfigDir == "" {
		potentialConfigDir = config.DefaultRootDir
	}

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(potentialConfigDir); !os.IsNotExist(err) {
			// Project-specific config directory exists. Prioritize it.
			viper.AddConfigPath(potentialConfigDir)
			viper.SetConfigName(configName)
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigName(configName)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	config.SetDefaults()

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// A config file may exist but omit these nested keys.
	if GlobalAppConfig.Project.RootDir == "" {
		GlobalAppConfig.Project.RootDir = viper.GetString("project.rootDir")
	}
	if GlobalAppConfig.Project.ReportsDir == "" {
		GlobalAppConfig.Project.ReportsDir = viper.GetString("project.reportsDir")
	}
	if GlobalAppConfig.Index.Dir == "" {
		GlobalAppConfig.Index.Dir = viper.GetString("index.dir")
	}

	if err := models.ValidateStruct(GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}

	logger.SetBasePath(GlobalAppConfig.Project.RootDir)
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// GetArchiveFilePath returns the full path to the archive file.
func GetArchiveFilePath() string {
	cfg := GetConfig()
	return filepath.Join(cfg.Project.RootDir, cfg.Data.File)
}

// GetReportsDirPath returns the directory watched for incoming reports.
func GetReportsDirPath() string {
	cfg := GetConfig()
	return filepath.Join(cfg.Project.RootDir, cfg.Project.ReportsDir)
}

// GetStore initializes and returns the archive store using the unified
// types.AppConfig.
func GetStore() (store.ReportStore, error) {
	s := store.NewFileReportStore()
	cfg := GetConfig()

	archivePath := GetArchiveFilePath()
	err := s.Initialize(map[string]string{
		"dataFile":       archivePath,
		"dataFileFormat": cfg.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize archive at %s: %w", archivePath, err)
	}
	return s, nil
}

// GetIndex opens the SQLite session index.
func GetIndex() (memory.IndexStore, error) {
	cfg := GetConfig()
	idx, err := memory.NewSQLiteStore(cfg.Index.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session index at %s: %w", cfg.Index.Dir, err)
	}
	return idx, nil
}
