package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/models"
	"github.com/tristendillon/geninterface/core/paths"
)

type FileWatcher interface {
	Watch(ctx context.Context) error
	Close() error
}

type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher

	fs         afero.Fs
	extensions []string
	suffix     string
	// serializes OnChange so regeneration passes never overlap
	flushMu sync.Mutex
}

// NewFileWatcher watches rootDir. Paths handed to OnChange are absolute.
func NewFileWatcher(fs afero.Fs, rootDir string, cfg *config.Config) (*FileWatcherImpl, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", rootDir)
	}

	fw, err := models.NewFileWatcher(absRoot, cfg.Watch.Exclude, cfg.Watch.Debounce)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}
	logger.Debug("Excluding paths: %v", fw.ExcludePaths)

	return &FileWatcherImpl{
		FileWatcher: fw,
		fs:          fs,
		extensions:  cfg.Generate.Extensions,
		suffix:      cfg.Generate.OutputSuffix,
	}, nil
}

// WatchConfig makes writes to the config file at path trigger OnConfigChange.
// Call it before Watch.
func (fw *FileWatcherImpl) WatchConfig(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}

	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()
	fw.FileWatcher.ConfigPath = abs
	return nil
}

// ApplyConfig switches the source filter, exclusions and debounce to cfg.
// Directories already watched stay watched.
func (fw *FileWatcherImpl) ApplyConfig(cfg *config.Config) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	fw.extensions = cfg.Generate.Extensions
	fw.suffix = cfg.Generate.OutputSuffix
	fw.FileWatcher.ExcludePaths = cfg.Watch.Exclude
	fw.FileWatcher.Debounce = cfg.Watch.Debounce
	logger.Debug("Watcher settings updated, excluding: %v", cfg.Watch.Exclude)
}

// Watch blocks until ctx is cancelled or the underlying watcher shuts down.
func (fw *FileWatcherImpl) Watch(ctx context.Context) error {
	if err := fw.addWatchersRecursively(fw.FileWatcher.RootDir); err != nil {
		return errors.Wrap(err, "failed to add watchers")
	}
	if configPath := fw.configPath(); configPath != "" {
		// Editors often replace the file, so watch its directory
		if err := fw.FileWatcher.Watcher.Add(filepath.Dir(configPath)); err != nil {
			return errors.Wrapf(err, "failed to watch config file %s", configPath)
		}
	}

	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			fw.handleEvent(event)

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) handleEvent(event fsnotify.Event) {
	if fw.isConfigFile(event.Name) {
		if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
			logger.Debug("Config event: %s %s", event.Op, event.Name)
			fw.queueConfigChange()
		}
		return
	}
	if fw.outsideRoot(event.Name) {
		return
	}
	if fw.shouldExcludePath(event.Name) {
		return
	}

	logger.Debug("File event: %s %s", event.Op, event.Name)

	if event.Has(fsnotify.Create) {
		if isDir, err := afero.IsDir(fw.fs, event.Name); err == nil && isDir {
			logger.Debug("Adding watcher for new directory: %s", event.Name)
			if err := fw.addWatchersRecursively(event.Name); err != nil {
				logger.Error("Failed to watch %s: %v", event.Name, err)
			}
			// Files created together with the directory produce no events of their own
			fw.queueSourcesIn(event.Name)
			return
		}
	}

	if !fw.isSource(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		fw.queue(models.FileChange{Path: event.Name, Removed: true})
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		fw.queue(models.FileChange{Path: event.Name})
	}
}

func (fw *FileWatcherImpl) queueSourcesIn(dir string) {
	err := afero.Walk(fw.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if fw.shouldExcludePath(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if fw.isSource(path) {
			fw.queue(models.FileChange{Path: path})
		}
		return nil
	})
	if err != nil {
		logger.Debug("Failed to scan new directory %s: %v", dir, err)
	}
}

func (fw *FileWatcherImpl) isSource(path string) bool {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()
	return paths.IsSource(path, fw.suffix, fw.extensions)
}

func (fw *FileWatcherImpl) configPath() string {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()
	return fw.FileWatcher.ConfigPath
}

func (fw *FileWatcherImpl) isConfigFile(path string) bool {
	configPath := fw.configPath()
	if configPath == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && abs == configPath
}

// outsideRoot reports events from the config directory when it lies outside
// the watched tree.
func (fw *FileWatcherImpl) outsideRoot(path string) bool {
	relPath, err := filepath.Rel(fw.FileWatcher.RootDir, path)
	if err != nil {
		return true
	}
	return relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator))
}

// queue records a change and restarts the debounce timer.
func (fw *FileWatcherImpl) queue(change models.FileChange) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	fw.FileWatcher.Pending[change.Path] = change
	fw.restartTimer()
}

func (fw *FileWatcherImpl) queueConfigChange() {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	fw.FileWatcher.ConfigChanged = true
	fw.restartTimer()
}

// restartTimer must be called with the mutex held.
func (fw *FileWatcherImpl) restartTimer() {
	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}
	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, fw.flush)
}

// flush runs a config reload before source changes. The reload already
// regenerates every stale file, so it consumes the pending changes too.
func (fw *FileWatcherImpl) flush() {
	fw.flushMu.Lock()
	defer fw.flushMu.Unlock()

	fw.FileWatcher.Mutex.Lock()
	pending := fw.FileWatcher.Pending
	configChanged := fw.FileWatcher.ConfigChanged
	fw.FileWatcher.Pending = make(map[string]models.FileChange)
	fw.FileWatcher.ConfigChanged = false
	fw.FileWatcher.Mutex.Unlock()

	if configChanged {
		logger.Info("Config file changed, reloading...")
		err := fw.FileWatcher.OnConfigChange()
		if err == nil {
			return
		}
		logger.Error("Watcher.OnConfigChange failed: %v", err)
	}

	if len(pending) == 0 {
		return
	}

	changes := lo.Values(pending)
	slices.SortFunc(changes, func(a, b models.FileChange) int {
		return strings.Compare(a.Path, b.Path)
	})

	logger.Debug("File changes detected, regenerating %d file(s)...", len(changes))
	if err := fw.FileWatcher.OnChange(changes); err != nil {
		logger.Error("Watcher.OnChange failed: %v", err)
	}
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}
	fw.FileWatcher.Mutex.Unlock()

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}

// shouldExcludePath matches exclude entries against the path relative to the
// root, either as a leading path or as any single path segment.
func (fw *FileWatcherImpl) shouldExcludePath(path string) bool {
	fw.FileWatcher.Mutex.Lock()
	excludes := fw.FileWatcher.ExcludePaths
	fw.FileWatcher.Mutex.Unlock()

	relPath, err := filepath.Rel(fw.FileWatcher.RootDir, path)
	if err != nil {
		return false
	}

	relPath = filepath.Clean(relPath)
	if relPath == "." {
		return false
	}
	segments := strings.Split(relPath, string(filepath.Separator))

	for _, excludePath := range excludes {
		excludePath = filepath.Clean(excludePath)

		if relPath == excludePath {
			return true
		}
		if strings.HasPrefix(relPath, excludePath+string(filepath.Separator)) {
			return true
		}
		if lo.Contains(segments, excludePath) {
			return true
		}
	}

	return false
}

func (fw *FileWatcherImpl) addWatchersRecursively(root string) error {
	return afero.Walk(fw.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.FileWatcher.Watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to add watcher for %s", path)
		}

		return nil
	})
}
