// Command generate_demo creates a demo Calibre library with public domain books.
// Usage: go run cmd/generate_demo/main.go [-dir path/to/Livros]
package main

import (
	"flag"
	"log"

	"github.com/mrlokans/calibre-catalog/internal/fixtures"
	"github.com/spf13/afero"
)

const defaultDemoLibraryPath = "./demo/Livros"

func main() {
	dir := flag.String("dir", defaultDemoLibraryPath, "directory to create the demo library in")
	flag.Parse()

	log.Printf("Generating demo library at %s...", *dir)

	fs := afero.NewOsFs()

	// Start fresh so removed demo books do not linger
	if err := fs.RemoveAll(*dir); err != nil {
		log.Fatalf("Failed to remove existing demo library: %v", err)
	}

	books := fixtures.DemoLibrary()
	if err := fixtures.WriteLibrary(fs, *dir, books); err != nil {
		log.Fatalf("Failed to write demo library: %v", err)
	}

	for _, book := range books {
		log.Printf("Created: %s", book.Dir(*dir))
	}

	log.Println("Demo library generated successfully!")
}
