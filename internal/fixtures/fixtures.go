// Package fixtures builds Calibre-style library trees for tests and demos.
package fixtures

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Identifier is a dc:identifier with its opf:scheme attribute.
type Identifier struct {
	Scheme string
	Value  string
}

// Metadata is rendered into a metadata.opf document. Empty fields are left
// out of the document entirely.
type Metadata struct {
	Title       string
	Creator     string
	Description string
	Identifiers []Identifier
}

// OPF renders m the way Calibre writes its sidecar files.
func (m Metadata) OPF() string {
	var b strings.Builder

	b.WriteString(`<?xml version='1.0' encoding='utf-8'?>` + "\n")
	b.WriteString(`<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="uuid_id" version="2.0">` + "\n")
	b.WriteString(`  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">` + "\n")
	for _, id := range m.Identifiers {
		fmt.Fprintf(&b, "    <dc:identifier opf:scheme=%q>%s</dc:identifier>\n", id.Scheme, escape(id.Value))
	}
	if m.Title != "" {
		fmt.Fprintf(&b, "    <dc:title>%s</dc:title>\n", escape(m.Title))
	}
	if m.Creator != "" {
		fmt.Fprintf(&b, "    <dc:creator opf:role=\"aut\">%s</dc:creator>\n", escape(m.Creator))
	}
	if m.Description != "" {
		fmt.Fprintf(&b, "    <dc:description>%s</dc:description>\n", escape(m.Description))
	}
	b.WriteString("    <dc:language>por</dc:language>\n")
	b.WriteString("  </metadata>\n")
	b.WriteString("</package>\n")

	return b.String()
}

// Book is one book directory: <root>/<AuthorFolder>/<Folder>.
type Book struct {
	AuthorFolder string
	Folder       string

	// Sidecar is written verbatim as metadata.opf when RawSidecar is set,
	// otherwise Metadata.OPF() is used. NoSidecar skips the file.
	Metadata   Metadata
	RawSidecar string
	NoSidecar  bool

	// Files are created empty next to the sidecar, e.g. "cover.jpg".
	Files []string
}

// Dir returns the book directory below root.
func (b Book) Dir(root string) string {
	return filepath.Join(root, b.AuthorFolder, b.Folder)
}

// WriteLibrary creates every book of books below root on fs.
func WriteLibrary(fs afero.Fs, root string, books []Book) error {
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create library root: %w", err)
	}

	for _, book := range books {
		if err := WriteBook(fs, root, book); err != nil {
			return err
		}
	}
	return nil
}

// WriteBook creates a single book directory below root.
func WriteBook(fs afero.Fs, root string, book Book) error {
	dir := book.Dir(root)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create book dir %s: %w", dir, err)
	}

	if !book.NoSidecar {
		sidecar := book.RawSidecar
		if sidecar == "" {
			sidecar = book.Metadata.OPF()
		}
		if err := afero.WriteFile(fs, filepath.Join(dir, "metadata.opf"), []byte(sidecar), 0o644); err != nil {
			return fmt.Errorf("write sidecar in %s: %w", dir, err)
		}
	}

	for _, name := range book.Files {
		if err := afero.WriteFile(fs, filepath.Join(dir, name), nil, 0o644); err != nil {
			return fmt.Errorf("write %s in %s: %w", name, dir, err)
		}
	}
	return nil
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return xmlEscaper.Replace(s)
}
