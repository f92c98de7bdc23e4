package library

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mrlokans/calibre-catalog/internal/entities"
	"github.com/mrlokans/calibre-catalog/internal/opf"
	"github.com/spf13/afero"
)

// Result is the outcome of extracting one sidecar: either Record or Err is set.
type Result struct {
	Path   string
	Record *entities.BookRecord
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Record != nil
}

// Extractor builds a BookRecord from a sidecar and the files around it.
type Extractor struct {
	fs afero.Fs

	// Cover and book file paths are relative to the parent of the library
	// root, folder paths to baseDir.
	assetsBase string
	baseDir    string
}

// NewExtractor expects libraryRoot and baseDir to be absolute, or both
// relative to the same directory.
func NewExtractor(fs afero.Fs, libraryRoot, baseDir string) *Extractor {
	return &Extractor{
		fs:         fs,
		assetsBase: filepath.Dir(filepath.Clean(libraryRoot)),
		baseDir:    filepath.Clean(baseDir),
	}
}

// Extract never panics on bad input; failures come back in Result.Err.
func (e *Extractor) Extract(sidecarPath string) Result {
	record, err := e.extract(sidecarPath)
	if err != nil {
		return Result{Path: sidecarPath, Err: err}
	}
	return Result{Path: sidecarPath, Record: record}
}

func (e *Extractor) extract(sidecarPath string) (*entities.BookRecord, error) {
	pkg, err := opf.ParseFile(e.fs, sidecarPath)
	if err != nil {
		return nil, err
	}
	metadata := pkg.Metadata

	record := &entities.BookRecord{
		Title:     entities.UnknownTitle,
		Author:    entities.UnknownAuthor,
		CalibreID: metadata.IdentifierByScheme(opf.SchemeCalibre),
	}
	if title, ok := metadata.Title(); ok {
		record.Title = title
	}
	if creator, ok := metadata.Creator(); ok {
		record.Author = creator
	}
	if description, ok := metadata.Description(); ok {
		record.Description = description
	}

	bookDir := filepath.Dir(sidecarPath)

	cover, err := e.findCover(bookDir)
	if err != nil {
		return nil, err
	}
	record.Cover = cover

	bookFile, err := e.findBookFile(bookDir)
	if err != nil {
		return nil, err
	}
	if bookFile != "" {
		record.SetFile(bookFile)
	}

	record.AuthorFolder = filepath.Base(filepath.Dir(bookDir))

	record.FolderPath, err = relativeSlashPath(e.baseDir, bookDir)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (e *Extractor) findCover(bookDir string) (*string, error) {
	coverPath := filepath.Join(bookDir, CoverName)

	exists, err := afero.Exists(e.fs, coverPath)
	if err != nil {
		return nil, fmt.Errorf("stat cover %s: %w", coverPath, err)
	}
	if !exists {
		return nil, nil
	}

	rel, err := relativeSlashPath(e.assetsBase, coverPath)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// findBookFile returns the first file in bookDir, by name, with a known book
// extension, or an empty string.
func (e *Extractor) findBookFile(bookDir string) (string, error) {
	// afero.ReadDir sorts entries by name.
	entries, err := afero.ReadDir(e.fs, bookDir)
	if err != nil {
		return "", fmt.Errorf("list book dir %s: %w", bookDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(BookExtensions, ext) {
			continue
		}
		return relativeSlashPath(e.assetsBase, filepath.Join(bookDir, entry.Name()))
	}
	return "", nil
}
