package library

import (
	"path/filepath"
	"testing"

	"github.com/mrlokans/calibre-catalog/internal/fixtures"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testRoot = "/home/reader/Livros"

func newTestLibrary(t *testing.T, books []fixtures.Book) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fixtures.WriteLibrary(fs, testRoot, books))
	return fs
}

func TestWalker_FindSidecars(t *testing.T) {
	t.Run("finds one sidecar per book directory", func(t *testing.T) {
		fs := newTestLibrary(t, []fixtures.Book{
			{AuthorFolder: "Author A", Folder: "Book 1", Metadata: fixtures.Metadata{Title: "One"}},
			{AuthorFolder: "Author A", Folder: "Book 2", Metadata: fixtures.Metadata{Title: "Two"}},
			{AuthorFolder: "Author B", Folder: "Book 3", Metadata: fixtures.Metadata{Title: "Three"}},
		})

		sidecars, err := NewWalker(fs, "", nil).FindSidecars(testRoot)
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{
			filepath.Join(testRoot, "Author A", "Book 1", SidecarName),
			filepath.Join(testRoot, "Author A", "Book 2", SidecarName),
			filepath.Join(testRoot, "Author B", "Book 3", SidecarName),
		}, sidecars)
	})

	t.Run("skips directories without sidecar", func(t *testing.T) {
		fs := newTestLibrary(t, []fixtures.Book{
			{AuthorFolder: "Author", Folder: "With", Metadata: fixtures.Metadata{Title: "With"}},
			{AuthorFolder: "Author", Folder: "Without", NoSidecar: true, Files: []string{"book.pdf", "cover.jpg"}},
		})

		sidecars, err := NewWalker(fs, "", nil).FindSidecars(testRoot)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(testRoot, "Author", "With", SidecarName)}, sidecars)
	})

	t.Run("ignores similarly named files and directories", func(t *testing.T) {
		fs := newTestLibrary(t, []fixtures.Book{
			{AuthorFolder: "Author", Folder: "Book", NoSidecar: true, Files: []string{"Metadata.opf", "metadata.opf.bak"}},
		})
		require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, "Author", "Other", SidecarName), 0o755))

		sidecars, err := NewWalker(fs, "", nil).FindSidecars(testRoot)
		require.NoError(t, err)
		assert.Empty(t, sidecars)
	})

	t.Run("never descends into trash", func(t *testing.T) {
		fs := newTestLibrary(t, []fixtures.Book{
			{AuthorFolder: "Author", Folder: "Kept", Metadata: fixtures.Metadata{Title: "Kept"}},
			{AuthorFolder: ".caltrash", Folder: "Deleted", Metadata: fixtures.Metadata{Title: "Deleted"}},
			{AuthorFolder: "Author", Folder: "old.caltrash.d", Metadata: fixtures.Metadata{Title: "Substring"}},
		})
		nested := fixtures.Book{AuthorFolder: filepath.Join(".caltrash", "Author"), Folder: "Nested", Metadata: fixtures.Metadata{Title: "Nested"}}
		require.NoError(t, fixtures.WriteBook(fs, testRoot, nested))

		sidecars, err := NewWalker(fs, DefaultTrashMarker, nil).FindSidecars(testRoot)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(testRoot, "Author", "Kept", SidecarName)}, sidecars)
	})

	t.Run("trash marker only applies below the root", func(t *testing.T) {
		root := "/backups/.caltrash/Livros"
		fs := afero.NewMemMapFs()
		require.NoError(t, fixtures.WriteLibrary(fs, root, []fixtures.Book{
			{AuthorFolder: "Author", Folder: "Book", Metadata: fixtures.Metadata{Title: "Book"}},
		}))

		sidecars, err := NewWalker(fs, DefaultTrashMarker, nil).FindSidecars(root)
		require.NoError(t, err)
		assert.Len(t, sidecars, 1)
	})

	t.Run("custom trash marker", func(t *testing.T) {
		fs := newTestLibrary(t, []fixtures.Book{
			{AuthorFolder: "Author", Folder: "Book", Metadata: fixtures.Metadata{Title: "Book"}},
			{AuthorFolder: "_deleted", Folder: "Book", Metadata: fixtures.Metadata{Title: "Gone"}},
		})

		sidecars, err := NewWalker(fs, "_deleted", nil).FindSidecars(testRoot)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(testRoot, "Author", "Book", SidecarName)}, sidecars)
	})

	t.Run("empty library", func(t *testing.T) {
		fs := newTestLibrary(t, nil)

		sidecars, err := NewWalker(fs, "", nil).FindSidecars(testRoot)
		require.NoError(t, err)
		assert.Empty(t, sidecars)
	})

	t.Run("missing root yields no sidecars", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)

		sidecars, err := NewWalker(afero.NewMemMapFs(), "", zap.New(core)).FindSidecars("/nowhere")
		require.NoError(t, err)
		assert.Empty(t, sidecars)
		assert.Equal(t, 1, logs.FilterMessage("library directory not found").Len())
	})

	t.Run("root that is a file yields no sidecars", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/books.txt", []byte("x"), 0o644))

		sidecars, err := NewWalker(fs, "", nil).FindSidecars("/books.txt")
		require.NoError(t, err)
		assert.Empty(t, sidecars)
	})
}
