package catalog

import (
	"github.com/mrlokans/calibre-catalog/internal/entities"
	"github.com/mrlokans/calibre-catalog/internal/exporters"
	"github.com/mrlokans/calibre-catalog/internal/library"
	"go.uber.org/zap"
)

// DefaultProgressEvery is how many sidecars are processed between two
// progress callbacks.
const DefaultProgressEvery = 50

// SidecarFinder lists the sidecar files below a library root.
type SidecarFinder interface {
	FindSidecars(root string) ([]string, error)
}

// RecordExtractor turns one sidecar into a record or a failure.
type RecordExtractor interface {
	Extract(sidecarPath string) library.Result
}

// ProgressFunc is called with the 1-based index of the sidecar about to be
// processed and the total number found.
type ProgressFunc func(current, total int)

// Failure is a sidecar left out of the catalog.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes one run.
type Report struct {
	SidecarsFound int
	Records       []entities.BookRecord
	Failures      []Failure
	Export        exporters.ExportResult
}

// Pipeline handles the catalog workflow:
// walk → extract → sort → export.
type Pipeline struct {
	finder    SidecarFinder
	extractor RecordExtractor
	exporter  exporters.CatalogExporter
	logger    *zap.Logger

	ProgressEvery int
	OnFound       func(total int)
	OnProgress    ProgressFunc
}

func NewPipeline(finder SidecarFinder, extractor RecordExtractor, exporter exporters.CatalogExporter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		finder:        finder,
		extractor:     extractor,
		exporter:      exporter,
		logger:        logger,
		ProgressEvery: DefaultProgressEvery,
	}
}

// Collect walks root and extracts every sidecar, returning the records sorted
// by title. Nothing is written.
func (p *Pipeline) Collect(root string) (Report, error) {
	sidecars, err := p.finder.FindSidecars(root)
	if err != nil {
		return Report{}, err
	}

	if p.OnFound != nil {
		p.OnFound(len(sidecars))
	}

	report := Report{
		SidecarsFound: len(sidecars),
		Records:       make([]entities.BookRecord, 0, len(sidecars)),
	}

	for i, path := range sidecars {
		current := i + 1
		if p.OnProgress != nil && p.ProgressEvery > 0 && current%p.ProgressEvery == 0 {
			p.OnProgress(current, len(sidecars))
		}

		result := p.extractor.Extract(path)
		if !result.OK() {
			p.logger.Warn("failed to process sidecar",
				zap.String("path", path),
				zap.Error(result.Err))
			report.Failures = append(report.Failures, Failure{Path: path, Err: result.Err})
			continue
		}

		report.Records = append(report.Records, *result.Record)
	}

	SortByTitle(report.Records)

	return report, nil
}

// Run collects the catalog and hands it to the exporter, overwriting any
// previous output.
func (p *Pipeline) Run(root string) (Report, error) {
	report, err := p.Collect(root)
	if err != nil {
		return report, err
	}

	report.Export, err = p.exporter.Export(report.Records)
	if err != nil {
		return report, err
	}

	p.logger.Debug("catalog exported",
		zap.String("path", report.Export.Path),
		zap.Int("books", report.Export.BooksWritten))

	return report, nil
}
