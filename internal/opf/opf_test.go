package opf

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/mrlokans/calibre-catalog/internal/fixtures"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calibreOPF = `<?xml version='1.0' encoding='utf-8'?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="uuid_id" version="2.0">
    <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
        <dc:identifier opf:scheme="calibre" id="calibre_id">42</dc:identifier>
        <dc:identifier opf:scheme="uuid" id="uuid_id">a0c7f9a4-0000-4000-8000-000000000000</dc:identifier>
        <dc:title>Grande Sertão: Veredas</dc:title>
        <dc:creator opf:file-as="Rosa, João Guimarães" opf:role="aut">João Guimarães Rosa</dc:creator>
        <dc:description>&lt;p&gt;Riobaldo conta sua vida.&lt;/p&gt;</dc:description>
        <dc:language>por</dc:language>
        <meta name="calibre:timestamp" content="2023-01-01T00:00:00+00:00"/>
    </metadata>
    <guide>
        <reference type="cover" title="Cover" href="cover.jpg"/>
    </guide>
</package>
`

func TestParse(t *testing.T) {
	t.Run("reads calibre sidecar", func(t *testing.T) {
		pkg, err := Parse(strings.NewReader(calibreOPF))
		require.NoError(t, err)

		title, ok := pkg.Metadata.Title()
		assert.True(t, ok)
		assert.Equal(t, "Grande Sertão: Veredas", title)

		creator, ok := pkg.Metadata.Creator()
		assert.True(t, ok)
		assert.Equal(t, "João Guimarães Rosa", creator)

		description, ok := pkg.Metadata.Description()
		assert.True(t, ok)
		assert.Equal(t, "<p>Riobaldo conta sua vida.</p>", description)

		assert.Equal(t, "42", pkg.Metadata.IdentifierByScheme(SchemeCalibre))
	})

	t.Run("reports missing elements", func(t *testing.T) {
		doc := `<package xmlns="http://www.idpf.org/2007/opf"><metadata xmlns:dc="http://purl.org/dc/elements/1.1/"></metadata></package>`

		pkg, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)

		_, ok := pkg.Metadata.Title()
		assert.False(t, ok)
		_, ok = pkg.Metadata.Creator()
		assert.False(t, ok)
		_, ok = pkg.Metadata.Description()
		assert.False(t, ok)
		assert.Empty(t, pkg.Metadata.IdentifierByScheme(SchemeCalibre))
	})

	t.Run("uses first of repeated elements", func(t *testing.T) {
		doc := fixtures.Metadata{Title: "First"}.OPF()
		doc = strings.Replace(doc, "<dc:title>First</dc:title>",
			"<dc:title>First</dc:title><dc:title>Second</dc:title>", 1)

		pkg, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)

		title, _ := pkg.Metadata.Title()
		assert.Equal(t, "First", title)
	})

	t.Run("ignores elements outside the dublin core namespace", func(t *testing.T) {
		doc := `<package xmlns="http://www.idpf.org/2007/opf"><metadata><title>Not DC</title></metadata></package>`

		pkg, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)

		_, ok := pkg.Metadata.Title()
		assert.False(t, ok)
	})

	t.Run("fails without metadata block", func(t *testing.T) {
		doc := `<package xmlns="http://www.idpf.org/2007/opf"><manifest/></package>`

		_, err := Parse(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrNoMetadata)
	})

	t.Run("fails when metadata is not in the opf namespace", func(t *testing.T) {
		doc := `<package><metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>X</dc:title></metadata></package>`

		_, err := Parse(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrNoMetadata)
	})

	t.Run("fails on malformed document", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<package xmlns="http://www.idpf.org/2007/opf"><metadata>`))
		assert.Error(t, err)
	})

	t.Run("fails on empty document", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("fails on junk after document element", func(t *testing.T) {
		doc := fixtures.Metadata{Title: "X"}.OPF() + "<package/>"

		_, err := Parse(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrTrailingContent)
	})

	t.Run("fails on syntax error after document element", func(t *testing.T) {
		doc := fixtures.Metadata{Title: "X"}.OPF() + "<!-- unterminated"

		_, err := Parse(strings.NewReader(doc))
		assert.Error(t, err)
	})

	t.Run("fails on text before document element", func(t *testing.T) {
		doc := `garbage <package xmlns="http://www.idpf.org/2007/opf"><metadata/></package>`

		_, err := Parse(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrContentBeforeRoot)
	})

	t.Run("fails on undeclared element prefix", func(t *testing.T) {
		doc := `<package xmlns="http://www.idpf.org/2007/opf"><metadata><dc:title>x</dc:title></metadata></package>`

		_, err := Parse(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrUnboundPrefix)
	})

	t.Run("fails on undeclared attribute prefix", func(t *testing.T) {
		doc := `<package xmlns="http://www.idpf.org/2007/opf"><metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` +
			`<dc:identifier opf:scheme="calibre">1</dc:identifier></metadata></package>`

		_, err := Parse(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrUnboundPrefix)
	})

	t.Run("prefix declared on an ancestor is in scope", func(t *testing.T) {
		doc := `<opf:package xmlns:opf="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
			`<opf:metadata><dc:title xml:lang="pt">x</dc:title></opf:metadata></opf:package>`

		pkg, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)
		title, _ := pkg.Metadata.Title()
		assert.Equal(t, "x", title)
	})

	t.Run("accepts leading prolog and whitespace", func(t *testing.T) {
		doc := "\n<!-- calibre -->\n" +
			`<package xmlns="http://www.idpf.org/2007/opf"><metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>X</dc:title></metadata></package>`

		_, err := Parse(strings.NewReader(doc))
		assert.NoError(t, err)
	})

	t.Run("accepts trailing comments and whitespace", func(t *testing.T) {
		doc := fixtures.Metadata{Title: "X"}.OPF() + "\n<!-- generated -->\n\n"

		_, err := Parse(strings.NewReader(doc))
		assert.NoError(t, err)
	})

	t.Run("decodes declared latin-1 documents", func(t *testing.T) {
		var doc bytes.Buffer
		doc.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?>`)
		doc.WriteString(`<package xmlns="http://www.idpf.org/2007/opf"><metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Cora`)
		doc.WriteByte(0xE7) // ç
		doc.WriteString(`&#227;o</dc:title></metadata></package>`)

		pkg, err := Parse(&doc)
		require.NoError(t, err)

		title, _ := pkg.Metadata.Title()
		assert.Equal(t, "Coração", title)
	})
}

func TestIdentifierScheme(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
	}{
		{
			name:     "namespaced scheme",
			doc:      `<dc:identifier opf:scheme="calibre">7</dc:identifier>`,
			expected: "7",
		},
		{
			name:     "unqualified scheme",
			doc:      `<dc:identifier scheme="calibre">8</dc:identifier>`,
			expected: "8",
		},
		{
			name:     "namespaced scheme preferred over earlier unqualified one",
			doc:      `<dc:identifier scheme="calibre">plain</dc:identifier><dc:identifier opf:scheme="calibre">ns</dc:identifier>`,
			expected: "ns",
		},
		{
			name:     "first calibre identifier wins",
			doc:      `<dc:identifier opf:scheme="ISBN">978</dc:identifier><dc:identifier opf:scheme="calibre">1</dc:identifier><dc:identifier opf:scheme="calibre">2</dc:identifier>`,
			expected: "1",
		},
		{
			name:     "scheme value is case sensitive",
			doc:      `<dc:identifier opf:scheme="Calibre">9</dc:identifier>`,
			expected: "",
		},
		{
			name:     "no calibre identifier",
			doc:      `<dc:identifier opf:scheme="ISBN">978</dc:identifier><dc:identifier>plain</dc:identifier>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<package xmlns="http://www.idpf.org/2007/opf"><metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">` +
				tt.doc + `</metadata></package>`

			pkg, err := Parse(strings.NewReader(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pkg.Metadata.IdentifierByScheme(SchemeCalibre))
		})
	}

	t.Run("Scheme prefers the namespaced attribute", func(t *testing.T) {
		id := Identifier{Attrs: []xml.Attr{
			{Name: xml.Name{Local: "scheme"}, Value: "plain"},
			{Name: xml.Name{Space: NamespaceOPF, Local: "scheme"}, Value: "ns"},
		}}
		assert.Equal(t, "ns", id.Scheme())
		assert.Equal(t, "plain", Identifier{Attrs: id.Attrs[:1]}.Scheme())
	})
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/lib/metadata.opf", []byte(calibreOPF), 0o644))

	pkg, err := ParseFile(fs, "/lib/metadata.opf")
	require.NoError(t, err)
	title, _ := pkg.Metadata.Title()
	assert.Equal(t, "Grande Sertão: Veredas", title)

	_, err = ParseFile(fs, "/lib/missing.opf")
	assert.Error(t, err)
}
