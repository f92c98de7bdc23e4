// Package catalog rebuilds the library catalog from scratch.
//
// # Architecture
//
// A run is a single forward pass:
//
//	library root → Walker → sidecar paths → Extractor → BookRecord → SortByTitle → Exporter → catalogo.json
//
// Sidecars that cannot be read or parsed are logged and reported as
// failures; they never stop the run. Errors while walking the tree or
// writing the output are returned to the caller.
//
// # Example Usage
//
//	walker := library.NewWalker(fs, library.DefaultTrashMarker, logger)
//	extractor := library.NewExtractor(fs, root, baseDir)
//	exporter := exporters.NewJSONExporter(fs, outputPath)
//
//	pipeline := catalog.NewPipeline(walker, extractor, exporter, logger)
//	report, err := pipeline.Run(root)
package catalog
