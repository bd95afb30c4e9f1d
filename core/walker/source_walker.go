package walker

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/paths"
)

type Walker interface {
	Walk(root string) ([]string, error)
}

// SourceWalker collects source files under a directory, skipping excluded
// directories and companion files.
type SourceWalker struct {
	fs         afero.Fs
	Exclude    []string
	Extensions []string
	Suffix     string
}

func NewSourceWalker(fs afero.Fs, cfg *config.Config) *SourceWalker {
	return &SourceWalker{
		fs:         fs,
		Exclude:    cfg.Watch.Exclude,
		Extensions: cfg.Generate.Extensions,
		Suffix:     cfg.Generate.OutputSuffix,
	}
}

// IsExcludedDir reports whether a directory name is in the exclude list.
func (w *SourceWalker) IsExcludedDir(name string) bool {
	return lo.Contains(w.Exclude, name)
}

func (w *SourceWalker) Walk(root string) ([]string, error) {
	var discovered []string

	err := afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && w.IsExcludedDir(info.Name()) {
				logger.Debug("Skipping excluded directory: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if paths.IsSource(path, w.Suffix, w.Extensions) {
			discovered = append(discovered, path)
			logger.Debug("Discovered source file: %s", path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}

	return discovered, nil
}
