// Package library finds the books of a Calibre library on disk and turns
// their metadata.opf sidecars into catalog records.
//
// A library is laid out as <root>/<author>/<book>/, every book directory
// holding a metadata.opf, optionally a cover.jpg and one or more book files.
// Calibre moves deleted books into a .caltrash directory which is never read.
package library

import (
	"fmt"
	"path/filepath"
)

const (
	SidecarName        = "metadata.opf"
	CoverName          = "cover.jpg"
	DefaultTrashMarker = ".caltrash"
)

// BookExtensions are the book file formats recognised next to a sidecar,
// compared case-insensitively.
var BookExtensions = []string{".pdf", ".epub", ".mobi"}

// relativeSlashPath returns target relative to base with forward slashes,
// whatever the host separator is.
func relativeSlashPath(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("relative path of %s from %s: %w", target, base, err)
	}
	return filepath.ToSlash(rel), nil
}
