package entities

// Defaults applied when the sidecar metadata omits a field.
const (
	UnknownTitle  = "Título desconhecido"
	UnknownAuthor = "Autor desconhecido"
)

// BookRecord describes one book found in the library. The JSON field names and
// their order are read by the catalog browser, so they must not change.
type BookRecord struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	CalibreID   string  `json:"calibreId"`
	Cover       *string `json:"cover"`
	File        *string `json:"file"`

	// Deprecated: Use File instead. Kept for backward compatibility.
	FileAgain *string `json:"file-again"`

	AuthorFolder string `json:"authorFolder"`
	FolderPath   string `json:"folderPath"`
}

// SetFile points both the current and the legacy file fields at path.
func (r *BookRecord) SetFile(path string) {
	legacy := path
	r.File = &path
	r.FileAgain = &legacy
}
