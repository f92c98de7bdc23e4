package fixtures

// DemoLibrary returns a small public domain library: regular books, one
// with a broken sidecar and one sitting in Calibre's trash.
func DemoLibrary() []Book {
	return []Book{
		{
			AuthorFolder: "Machado de Assis",
			Folder:       "Dom Casmurro (1)",
			Metadata: Metadata{
				Title:       "Dom Casmurro",
				Creator:     "Machado de Assis",
				Description: "Bentinho relembra a juventude e o ciúme de Capitu.",
				Identifiers: []Identifier{
					{Scheme: "calibre", Value: "1"},
					{Scheme: "uuid", Value: "4c3c7bde-1f5a-4a9e-9d42-0c1c8e7f0a11"},
				},
			},
			Files: []string{"cover.jpg", "Dom Casmurro - Machado de Assis.epub"},
		},
		{
			AuthorFolder: "Machado de Assis",
			Folder:       "Memorias Postumas de Bras Cubas (2)",
			Metadata: Metadata{
				Title:       "Memórias Póstumas de Brás Cubas",
				Creator:     "Machado de Assis",
				Identifiers: []Identifier{{Scheme: "calibre", Value: "2"}},
			},
			Files: []string{"Memorias Postumas de Bras Cubas - Machado de Assis.pdf"},
		},
		{
			AuthorFolder: "Eca de Queiros",
			Folder:       "O Primo Basilio (3)",
			Metadata: Metadata{
				Title:       "O Primo Basílio",
				Creator:     "Eça de Queirós",
				Description: "Luísa, Jorge & o primo <Basílio>.",
				Identifiers: []Identifier{
					{Scheme: "ISBN", Value: "9788572326262"},
					{Scheme: "calibre", Value: "3"},
				},
			},
			Files: []string{"cover.jpg", "O Primo Basilio - Eca de Queiros.MOBI"},
		},
		{
			AuthorFolder: "Aluisio Azevedo",
			Folder:       "o cortico (4)",
			Metadata: Metadata{
				Title: "o cortiço",
			},
		},
		{
			AuthorFolder: "Unknown",
			Folder:       "Broken (5)",
			RawSidecar:   "<package xmlns=\"http://www.idpf.org/2007/opf\"><metadata>",
		},
		{
			AuthorFolder: ".caltrash",
			Folder:       "Deleted Book (6)",
			Metadata: Metadata{
				Title:   "Deleted Book",
				Creator: "Nobody",
			},
			Files: []string{"Deleted Book - Nobody.pdf"},
		},
	}
}
