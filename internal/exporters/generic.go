package exporters

import "github.com/mrlokans/calibre-catalog/internal/entities"

type CatalogExporter interface {
	Export(records []entities.BookRecord) (ExportResult, error)
}

type ExportResult struct {
	BooksWritten int    `json:"books_written"`
	Path         string `json:"path"`
	Bytes        int64  `json:"bytes"`
}
