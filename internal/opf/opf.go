// Package opf reads Open Packaging Format documents, the metadata.opf sidecar
// files Calibre keeps next to every book in a library.
package opf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/afero"
	"golang.org/x/net/html/charset"
)

const (
	NamespaceOPF = "http://www.idpf.org/2007/opf"
	NamespaceDC  = "http://purl.org/dc/elements/1.1/"

	// SchemeCalibre marks the identifier holding Calibre's internal book id.
	SchemeCalibre = "calibre"

	xmlnsPrefix = "xmlns"
	xmlPrefix   = "xml"
)

// ErrNoMetadata is returned when the document has no OPF metadata block.
var ErrNoMetadata = errors.New("opf metadata block not found")

var (
	// ErrTrailingContent is returned when anything but whitespace, comments
	// or processing instructions follows the document element.
	ErrTrailingContent = errors.New("junk after document element")
	// ErrContentBeforeRoot is returned for text ahead of the document element.
	ErrContentBeforeRoot = errors.New("text before document element")
	ErrUnboundPrefix     = errors.New("unbound prefix")
)

type Package struct {
	Metadata *Metadata `xml:"http://www.idpf.org/2007/opf metadata"`
}

// Metadata holds the Dublin Core elements of interest, in document order.
type Metadata struct {
	Titles       []Element    `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators     []Element    `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Descriptions []Element    `xml:"http://purl.org/dc/elements/1.1/ description"`
	Identifiers  []Identifier `xml:"http://purl.org/dc/elements/1.1/ identifier"`
}

type Element struct {
	Value string `xml:",chardata"`
}

type Identifier struct {
	Value string     `xml:",chardata"`
	Attrs []xml.Attr `xml:",any,attr"`
}

// Scheme returns the opf:scheme attribute, falling back to an unqualified
// scheme attribute when the namespaced one is absent.
func (id Identifier) Scheme() string {
	if scheme, ok := id.scheme(NamespaceOPF); ok {
		return scheme
	}
	scheme, _ := id.scheme("")
	return scheme
}

func (id Identifier) scheme(space string) (string, bool) {
	for _, attr := range id.Attrs {
		if attr.Name.Local == "scheme" && attr.Name.Space == space {
			return attr.Value, true
		}
	}
	return "", false
}

// Title returns the text of the first dc:title element.
func (m *Metadata) Title() (string, bool) {
	return first(m.Titles)
}

// Creator returns the text of the first dc:creator element.
func (m *Metadata) Creator() (string, bool) {
	return first(m.Creators)
}

// Description returns the text of the first dc:description element.
func (m *Metadata) Description() (string, bool) {
	return first(m.Descriptions)
}

// IdentifierByScheme returns the first identifier whose opf:scheme matches.
// Only when none does are unqualified scheme attributes considered.
func (m *Metadata) IdentifierByScheme(scheme string) string {
	for _, space := range []string{NamespaceOPF, ""} {
		for _, id := range m.Identifiers {
			if value, ok := id.scheme(space); ok && value == scheme {
				return id.Value
			}
		}
	}
	return ""
}

func first(elements []Element) (string, bool) {
	if len(elements) == 0 {
		return "", false
	}
	return elements[0].Value, true
}

// Parse decodes a whole OPF document. Declared non-UTF-8 encodings are
// converted before decoding. The document is checked for well-formedness
// first, so text outside the document element, a second root or an
// undeclared namespace prefix all fail the parse.
func Parse(r io.Reader) (*Package, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read opf: %w", err)
	}
	if err := checkWellFormed(data); err != nil {
		return nil, fmt.Errorf("decode opf: %w", err)
	}

	var pkg Package
	if err := newDecoder(data).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("decode opf: %w", err)
	}
	if pkg.Metadata == nil {
		return nil, ErrNoMetadata
	}
	return &pkg, nil
}

// ParseFile opens path on fs and parses it.
func ParseFile(fs afero.Fs, path string) (*Package, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return Parse(file)
}

func newDecoder(data []byte) *xml.Decoder {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder
}

// checkWellFormed reads the raw token stream, tracking xmlns declarations
// per element so prefixes are resolved the way a namespace-aware parser
// would. Decode alone skips text before the root and leaves unbound
// prefixes untranslated.
func checkWellFormed(data []byte) error {
	decoder := newDecoder(data)

	var scopes [][]string
	roots := 0
	for {
		tok, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(scopes) == 0 {
				roots++
				if roots > 1 {
					return ErrTrailingContent
				}
			}

			var declared []string
			for _, attr := range t.Attr {
				if attr.Name.Space == xmlnsPrefix {
					declared = append(declared, attr.Name.Local)
				}
			}
			scopes = append(scopes, declared)

			if !bound(scopes, t.Name.Space) {
				return fmt.Errorf("%w: %s:%s", ErrUnboundPrefix, t.Name.Space, t.Name.Local)
			}
			for _, attr := range t.Attr {
				if attr.Name.Space == xmlnsPrefix {
					continue
				}
				if !bound(scopes, attr.Name.Space) {
					return fmt.Errorf("%w: %s:%s", ErrUnboundPrefix, attr.Name.Space, attr.Name.Local)
				}
			}
		case xml.EndElement:
			if len(scopes) == 0 {
				return fmt.Errorf("unexpected end element </%s>", t.Name.Local)
			}
			scopes = scopes[:len(scopes)-1]
		case xml.CharData:
			if len(scopes) > 0 || len(bytes.Trim(t, " \t\r\n\ufeff")) == 0 {
				continue
			}
			if roots == 0 {
				return ErrContentBeforeRoot
			}
			return ErrTrailingContent
		}
	}

	if roots == 0 || len(scopes) > 0 {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func bound(scopes [][]string, prefix string) bool {
	if prefix == "" || prefix == xmlPrefix {
		return true
	}
	for i := len(scopes) - 1; i >= 0; i-- {
		if slices.Contains(scopes[i], prefix) {
			return true
		}
	}
	return false
}
