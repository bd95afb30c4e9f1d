package models

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// FileChange is a source file that changed since the last regeneration pass.
type FileChange struct {
	Path    string
	Removed bool
}

type FileWatcher struct {
	Watcher       *fsnotify.Watcher
	RootDir       string
	ExcludePaths  []string
	Debounce      time.Duration
	DebounceTimer *time.Timer
	Pending       map[string]FileChange
	// ConfigPath is the absolute path of the watched config file, if any.
	ConfigPath     string
	ConfigChanged  bool
	Mutex          sync.Mutex
	OnStart        func() error
	OnChange       func(changes []FileChange) error
	OnConfigChange func() error
	OnClose        func() error
}

func NewFileWatcher(rootDir string, excludePaths []string, debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	return &FileWatcher{
		Watcher:        watcher,
		RootDir:        rootDir,
		ExcludePaths:   excludePaths,
		Debounce:       debounce,
		Pending:        make(map[string]FileChange),
		OnStart:        func() error { return errors.New("OnStart not set") },
		OnChange:       func([]FileChange) error { return errors.New("OnChange not set") },
		OnConfigChange: func() error { return nil },
		OnClose:        func() error { return nil },
	}, nil
}

func (fw *FileWatcher) AddOnStartFunc(onStart func() error) {
	fw.OnStart = onStart
}

func (fw *FileWatcher) AddOnChangeFunc(onChange func(changes []FileChange) error) {
	fw.OnChange = onChange
}

func (fw *FileWatcher) AddOnConfigChangeFunc(onConfigChange func() error) {
	fw.OnConfigChange = onConfigChange
}

func (fw *FileWatcher) AddOnCloseFunc(onClose func() error) {
	fw.OnClose = onClose
}
