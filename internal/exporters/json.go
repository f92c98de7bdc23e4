package exporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/mrlokans/calibre-catalog/internal/entities"
	"github.com/spf13/afero"
)

// JSONExporter writes the catalog as one indented JSON array. Records are
// written in the order given; sorting is the caller's job.
type JSONExporter struct {
	fs         afero.Fs
	OutputPath string
}

func NewJSONExporter(fs afero.Fs, outputPath string) *JSONExporter {
	return &JSONExporter{
		fs:         fs,
		OutputPath: outputPath,
	}
}

// Render encodes records with two-space indentation, leaving non-ASCII and
// HTML characters unescaped. U+2028 and U+2029 are written literally too.
func Render(records []entities.BookRecord) ([]byte, error) {
	if records == nil {
		records = []entities.BookRecord{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return unescapeSeparators(buf.Bytes()), nil
}

// unescapeSeparators undoes the \u2028 and \u2029 escapes encoding/json
// always applies. Escape pairs are skipped whole so an escaped backslash
// followed by "u2028" is left alone.
func unescapeSeparators(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			out = append(out, data[i])
			continue
		}
		if rest := data[i:]; bytes.HasPrefix(rest, []byte(`\u2028`)) || bytes.HasPrefix(rest, []byte(`\u2029`)) {
			r, _ := strconv.ParseUint(string(rest[2:6]), 16, 32)
			out = utf8.AppendRune(out, rune(r))
			i += 5
			continue
		}
		out = append(out, data[i])
		if i+1 < len(data) {
			i++
			out = append(out, data[i])
		}
	}
	return out
}

// Export replaces whatever was at OutputPath. A crash mid-write can leave a
// truncated file; the next run rebuilds it.
func (exporter *JSONExporter) Export(records []entities.BookRecord) (ExportResult, error) {
	data, err := Render(records)
	if err != nil {
		return ExportResult{}, err
	}

	if err := afero.WriteFile(exporter.fs, exporter.OutputPath, data, 0o644); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write catalog %s: %w", exporter.OutputPath, err)
	}

	return ExportResult{
		BooksWritten: len(records),
		Path:         exporter.OutputPath,
		Bytes:        int64(len(data)),
	}, nil
}
