package cli

import (
	"fmt"
	"os"

	"github.com/mrlokans/calibre-catalog/internal/config"
	"github.com/mrlokans/calibre-catalog/internal/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to their configuration keys.
var flagKeys = map[string]string{
	"library":        "library_root",
	"output":         "output_path",
	"base-dir":       "base_dir",
	"trash-marker":   "trash_marker",
	"progress-every": "progress_every",
	"dry-run":        "dry_run",
	"verbose":        "verbose",
	"log-level":      "log_level",
	"log-file":       "log_file",
}

// NewRootCommand returns the calibre-catalog command. Flags override
// environment variables, which override the optional config file.
func NewRootCommand(version string) *cobra.Command {
	v := config.NewViper()
	var configFile string

	cmd := &cobra.Command{
		Use:   "calibre-catalog",
		Short: "Build catalogo.json from a Calibre library",
		Long: "Scans a Calibre library for metadata.opf sidecars and writes a catalog of every\n" +
			"book, sorted by title, as a JSON file next to the library directory.",
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(config.DefaultEnvFile); err != nil {
				return err
			}
			if configFile != "" {
				if err := config.ReadConfigFile(v, configFile); err != nil {
					return err
				}
			}

			cfg := config.FromViper(v)
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			if err := cfg.Resolve(workDir); err != nil {
				return err
			}

			logCfg := logger.Config{
				Level:      logger.Level(cfg.Log.Level),
				FilePath:   cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			}
			if cfg.Run.Verbose {
				logCfg.Level = logger.DebugLevel
			}
			log, err := logger.New(logCfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			_, err = NewCatalogBuildCommand(cfg, afero.NewOsFs(), log, cmd.OutOrStdout()).Run()
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "Optional config file (YAML, TOML or JSON)")
	flags.String("library", config.DefaultLibraryRoot, "Calibre library directory to scan")
	flags.String("output", "", "Catalog file to write (default: catalogo.json next to the library)")
	flags.String("base-dir", "", "Directory folderPath values are relative to (default: working directory)")
	flags.String("trash-marker", config.DefaultTrashMarker, "Directories whose path contains this are skipped")
	flags.Int("progress-every", config.DefaultProgressEvery, "Print progress after this many books (0 disables)")
	flags.Bool("dry-run", false, "Scan and report without writing the catalog")
	flags.BoolP("verbose", "v", false, "List every cataloged book and enable debug logging")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-file", "", "Also write JSON logs to this file, rotated by size")

	cobra.CheckErr(bindFlags(v, flags))

	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
