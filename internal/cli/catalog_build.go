package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mrlokans/calibre-catalog/internal/catalog"
	"github.com/mrlokans/calibre-catalog/internal/config"
	"github.com/mrlokans/calibre-catalog/internal/exporters"
	"github.com/mrlokans/calibre-catalog/internal/library"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// CatalogBuildCommand rebuilds catalogo.json from a Calibre library.
type CatalogBuildCommand struct {
	Config *config.Config
	Fs     afero.Fs
	Logger *zap.Logger
	Out    io.Writer
}

// NewCatalogBuildCommand expects cfg to be resolved already.
func NewCatalogBuildCommand(cfg *config.Config, fs afero.Fs, logger *zap.Logger, out io.Writer) *CatalogBuildCommand {
	return &CatalogBuildCommand{
		Config: cfg,
		Fs:     fs,
		Logger: logger,
		Out:    out,
	}
}

func (cmd *CatalogBuildCommand) Run() (catalog.Report, error) {
	cfg := cmd.Config

	fmt.Fprintln(cmd.Out, "Calibre Catalog")
	fmt.Fprintln(cmd.Out, "===============")

	if cfg.Run.DryRun {
		fmt.Fprintln(cmd.Out, "DRY RUN MODE - the catalog will not be written")
		fmt.Fprintln(cmd.Out)
	}

	if isDir, _ := afero.IsDir(cmd.Fs, cfg.Library.Root); !isDir {
		fmt.Fprintf(cmd.Out, "Warning: library directory not found: %s\n", cfg.Library.Root)
	}

	fmt.Fprintf(cmd.Out, "Scanning library: %s\n", cfg.Library.Root)

	pipeline := catalog.NewPipeline(
		library.NewWalker(cmd.Fs, cfg.Library.TrashMarker, cmd.Logger),
		library.NewExtractor(cmd.Fs, cfg.Library.Root, cfg.Library.BaseDir),
		exporters.NewJSONExporter(cmd.Fs, cfg.Output.Path),
		cmd.Logger,
	)
	pipeline.ProgressEvery = cfg.Run.ProgressEvery
	pipeline.OnFound = func(total int) {
		fmt.Fprintf(cmd.Out, "Found %s books\n", humanize.Comma(int64(total)))
	}
	pipeline.OnProgress = func(current, total int) {
		fmt.Fprintf(cmd.Out, "Processing book %d/%d...\n", current, total)
	}

	var (
		report catalog.Report
		err    error
	)
	if cfg.Run.DryRun {
		report, err = pipeline.Collect(cfg.Library.Root)
	} else {
		report, err = pipeline.Run(cfg.Library.Root)
	}
	if err != nil {
		return report, err
	}

	if cfg.Run.Verbose {
		fmt.Fprintln(cmd.Out, "\n=== Books ===")
		for i, record := range report.Records {
			fmt.Fprintf(cmd.Out, "%d. \"%s\" by %s\n", i+1, record.Title, record.Author)
		}
	}

	if len(report.Failures) > 0 {
		fmt.Fprintf(cmd.Out, "\n%d sidecars could not be processed:\n", len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Fprintf(cmd.Out, "  [ERROR] %s: %v\n", failure.Path, failure.Err)
		}
	}

	fmt.Fprintln(cmd.Out)
	if cfg.Run.DryRun {
		fmt.Fprintf(cmd.Out, "Dry run complete: %s books would be written to %s\n",
			humanize.Comma(int64(len(report.Records))), cfg.Output.Path)
		return report, nil
	}

	fmt.Fprintf(cmd.Out, "✓ Catalog generated: %s books\n", humanize.Comma(int64(report.Export.BooksWritten)))
	fmt.Fprintf(cmd.Out, "✓ Saved to: %s (%s)\n", report.Export.Path, humanize.Bytes(uint64(report.Export.Bytes)))

	return report, nil
}
