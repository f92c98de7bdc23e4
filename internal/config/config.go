package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrLibraryRootMissing = errors.New("library root is not set")
	ErrInvalidProgress    = errors.New("progress interval must not be negative")
)

type (
	Config struct {
		Library
		Output
		Log
		Run
	}

	Library struct {
		Root        string
		TrashMarker string
		BaseDir     string // folderPath values are relative to this directory
	}
	Output struct {
		Path string
	}
	Log struct {
		Level      string
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
	Run struct {
		ProgressEvery int
		DryRun        bool
		Verbose       bool
	}
)

// LoadEnvFile exports the variables of a dotenv file into the process
// environment without overriding existing ones. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// NewViper returns a viper instance with every default set and environment
// overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("library_root", DefaultLibraryRoot)
	v.SetDefault("trash_marker", DefaultTrashMarker)
	v.SetDefault("base_dir", "")    // Working directory if empty
	v.SetDefault("output_path", "") // <library root>/../catalogo.json if empty
	v.SetDefault("progress_every", DefaultProgressEvery)
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)

	return v
}

// ReadConfigFile merges a YAML, TOML or JSON file into v. Environment
// variables and bound flags still take precedence.
func ReadConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

func FromViper(v *viper.Viper) *Config {
	return &Config{
		Library: Library{
			Root:        v.GetString("LIBRARY_ROOT"),
			TrashMarker: v.GetString("TRASH_MARKER"),
			BaseDir:     v.GetString("BASE_DIR"),
		},
		Output: Output{
			Path: v.GetString("OUTPUT_PATH"),
		},
		Log: Log{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Run: Run{
			ProgressEvery: v.GetInt("PROGRESS_EVERY"),
			DryRun:        v.GetBool("DRY_RUN"),
			Verbose:       v.GetBool("VERBOSE"),
		},
	}
}

func NewConfig() *Config {
	return FromViper(NewViper())
}

// Resolve makes every path absolute against workDir and fills the derived
// defaults: the base directory falls back to workDir and the output file to
// catalogo.json beside the library root.
func (cfg *Config) Resolve(workDir string) error {
	if cfg.Library.Root == "" {
		return ErrLibraryRootMissing
	}
	if cfg.Run.ProgressEvery < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidProgress, cfg.Run.ProgressEvery)
	}
	if cfg.Library.TrashMarker == "" {
		cfg.Library.TrashMarker = DefaultTrashMarker
	}

	cfg.Library.Root = absolute(workDir, cfg.Library.Root)

	if cfg.Library.BaseDir == "" {
		cfg.Library.BaseDir = workDir
	}
	cfg.Library.BaseDir = absolute(workDir, cfg.Library.BaseDir)

	if cfg.Output.Path == "" {
		cfg.Output.Path = filepath.Join(filepath.Dir(cfg.Library.Root), DefaultOutputFileName)
	}
	cfg.Output.Path = absolute(workDir, cfg.Output.Path)

	if cfg.Log.File != "" {
		cfg.Log.File = absolute(workDir, cfg.Log.File)
	}

	return nil
}

func absolute(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}
