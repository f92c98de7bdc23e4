package config

const (
	// DefaultLibraryRoot is the Calibre library scanned when nothing else is configured.
	DefaultLibraryRoot = "./Livros"

	// DefaultOutputFileName is written next to the library root.
	DefaultOutputFileName = "catalogo.json"

	DefaultTrashMarker   = ".caltrash"
	DefaultProgressEvery = 50
	DefaultEnvFile       = ".env"
)
