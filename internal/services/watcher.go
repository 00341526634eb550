package services

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinbaebae/sprt/internal/logger"
)

const watchDebounce = 2 * time.Second

// ChangeKind names the data source a change event originated from.
type ChangeKind string

const (
	// ChangeTranscripts fires when a session transcript is written.
	ChangeTranscripts ChangeKind = "transcripts"
	// ChangeDevlogs fires when a devlog document is written.
	ChangeDevlogs ChangeKind = "devlogs"
)

// WatcherService watches the session transcript tree and the devlog store
// and emits debounced change notifications. It only observes: nothing here
// rescans or regenerates, consumers decide what a change means.
type WatcherService struct {
	projectsDir string
	devlogsDir  string

	watcher *fsnotify.Watcher
	events  chan ChangeKind
	stopCh  chan struct{}

	mu      sync.Mutex
	pending map[ChangeKind]*time.Timer
}

// NewWatcherService creates a watcher over the transcript and devlog roots.
func NewWatcherService(projectsDir, devlogsDir string) *WatcherService {
	return &WatcherService{
		projectsDir: projectsDir,
		devlogsDir:  devlogsDir,
		events:      make(chan ChangeKind, 16),
		stopCh:      make(chan struct{}),
		pending:     make(map[ChangeKind]*time.Timer),
	}
}

// Events returns the debounced change channel. When nobody is draining it,
// further notifications of the same kind are dropped, not queued.
func (s *WatcherService) Events() <-chan ChangeKind {
	return s.events
}

// Start begins watching. Directories that do not exist yet are skipped with
// a warning; they get picked up on the next restart.
func (s *WatcherService) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	s.addTree(s.projectsDir)
	s.addTree(s.devlogsDir)

	go s.run()
	logger.Debugf("👀 Watching %s and %s", s.projectsDir, s.devlogsDir)
	return nil
}

// Stop stops the watcher and closes the events channel.
func (s *WatcherService) Stop() {
	close(s.stopCh)
	if s.watcher != nil {
		s.watcher.Close()
	}
}

// addTree watches a directory and its immediate subdirectories. Both trees
// are exactly two levels deep (project dirs holding transcripts, log-type
// dirs holding documents), so one level of descent is enough.
func (s *WatcherService) addTree(root string) {
	if err := s.watcher.Add(root); err != nil {
		logger.Warnf("⚠️  Failed to watch %s: %v", root, err)
		return
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := s.watcher.Add(filepath.Join(root, entry.Name())); err != nil {
			logger.Warnf("⚠️  Failed to watch %s: %v", entry.Name(), err)
		}
	}
}

func (s *WatcherService) run() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handle(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("⚠️  Watcher error: %v", err)
		case <-s.stopCh:
			return
		}
	}
}

func (s *WatcherService) handle(event fsnotify.Event) {
	// New project or log-type directories must join the watch set
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.watcher.Add(event.Name); err != nil {
				logger.Warnf("⚠️  Failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	switch {
	case strings.HasPrefix(event.Name, s.devlogsDir) && strings.HasSuffix(event.Name, ".json"):
		s.notify(ChangeDevlogs)
	case strings.HasPrefix(event.Name, s.projectsDir) && strings.HasSuffix(event.Name, ".jsonl"):
		s.notify(ChangeTranscripts)
	}
}

// notify schedules a debounced emission for the kind. Bursts of writes
// within the debounce window collapse into one event.
func (s *WatcherService) notify(kind ChangeKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[kind]; ok {
		timer.Reset(watchDebounce)
		return
	}
	s.pending[kind] = time.AfterFunc(watchDebounce, func() {
		s.mu.Lock()
		delete(s.pending, kind)
		s.mu.Unlock()

		select {
		case s.events <- kind:
		default:
		}
	})
}
