package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Walker enumerates the sidecar files of a library tree.
type Walker struct {
	fs          afero.Fs
	trashMarker string
	logger      *zap.Logger
}

func NewWalker(fs afero.Fs, trashMarker string, logger *zap.Logger) *Walker {
	if trashMarker == "" {
		trashMarker = DefaultTrashMarker
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		fs:          fs,
		trashMarker: trashMarker,
		logger:      logger,
	}
}

// FindSidecars walks root and returns the path of every metadata.opf below
// it, in lexical walk order. Directories whose path below root contains the
// trash marker are not descended into. A root that is missing or not a
// directory yields no sidecars. Any other filesystem error aborts the walk.
func (w *Walker) FindSidecars(root string) ([]string, error) {
	if isDir, err := afero.IsDir(w.fs, root); err != nil || !isDir {
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to walk library %s: %w", root, err)
		}
		w.logger.Warn("library directory not found", zap.String("root", root))
		return nil, nil
	}

	var sidecars []string

	err := afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if w.inTrash(root, path) {
				w.logger.Debug("skipping trash directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}

		if info.Name() == SidecarName {
			sidecars = append(sidecars, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk library %s: %w", root, err)
	}

	w.logger.Debug("library walk finished",
		zap.String("root", root),
		zap.Int("sidecars", len(sidecars)))

	return sidecars, nil
}

func (w *Walker) inTrash(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		rel = dir
	}
	return strings.Contains(filepath.ToSlash(rel), w.trashMarker)
}
