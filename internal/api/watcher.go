package api

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/config"
	"github.com/amterp/tack/internal/store"
)

const watchDebounce = 100 * time.Millisecond

var errWatcherStopped = errors.New("file watcher cannot be restarted after stop")

// FileChangeType is what happened to a file.
type FileChangeType string

const (
	FileChangeCreated  FileChangeType = "created"
	FileChangeModified FileChangeType = "modified"
	FileChangeDeleted  FileChangeType = "deleted"
)

// FileChangeKind is what the changed file holds.
type FileChangeKind string

const (
	FileChangeKindCard  FileChangeKind = "card"
	FileChangeKindBoard FileChangeKind = "board"
)

// FileChange is one debounced change under .tack, as pushed to clients.
type FileChange struct {
	Type      FileChangeType `json:"type"`
	Kind      FileChangeKind `json:"kind"`
	BoardName string         `json:"board_name,omitempty"`
	CardID    string         `json:"card_id,omitempty"`
	Path      string         `json:"path"` // relative to .tack/
}

// FileWatcherSubscriber receives file change notifications.
type FileWatcherSubscriber interface {
	OnFileChange(change FileChange)
}

// SubscriberFunc adapts a function to FileWatcherSubscriber.
type SubscriberFunc func(FileChange)

func (f SubscriberFunc) OnFileChange(change FileChange) { f(change) }

// EvictOnChange returns a subscriber that drops a cached board config when
// its file changes on disk.
func EvictOnChange(cache *store.CachedBoardStore) FileWatcherSubscriber {
	return SubscriberFunc(func(change FileChange) {
		if change.Kind == FileChangeKindBoard {
			cache.Invalidate(change.BoardName)
		}
	})
}

type watcherState int

const (
	watcherIdle watcherState = iota
	watcherRunning
	watcherStopped
)

// FileWatcher reports edits made to board and card files, whether by this
// server or by hand, to its subscribers.
type FileWatcher struct {
	fs      *fsnotify.Watcher
	dataDir string
	log     *log.Entry

	mu          sync.RWMutex
	state       watcherState
	subscribers []FileWatcherSubscriber

	pending *coalescer
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewFileWatcher creates a watcher over projectRoot's data directory. It
// does nothing until Start.
func NewFileWatcher(projectRoot string, logger *log.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		fs:      w,
		dataDir: config.NewPaths(projectRoot).DataRoot(),
		log:     logger.WithField("component", "watcher"),
		pending: newCoalescer(watchDebounce),
		done:    make(chan struct{}),
	}, nil
}

func (fw *FileWatcher) Subscribe(sub FileWatcherSubscriber) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.subscribers = append(fw.subscribers, sub)
}

// Start watches every existing directory under .tack and picks up new ones
// as they appear. Starting twice is a no-op; starting after Stop fails.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	switch fw.state {
	case watcherRunning:
		return nil
	case watcherStopped:
		return errWatcherStopped
	}

	fw.watchTree(fw.dataDir)
	fw.state = watcherRunning
	fw.wg.Add(1)
	go fw.loop()
	return nil
}

// Stop ends the watch. Pending debounced changes are dropped.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.state != watcherRunning {
		fw.mu.Unlock()
		return nil
	}
	fw.state = watcherStopped
	fw.mu.Unlock()

	fw.pending.stop()
	close(fw.done)
	err := fw.fs.Close()
	fw.wg.Wait()
	return err
}

func (fw *FileWatcher) watchTree(root string) {
	// A missing root just means nothing to watch yet.
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := fw.fs.Add(path); err != nil {
			fw.log.WithError(err).WithField("path", path).Warn("failed to watch directory")
		}
		return nil
	})
}

func (fw *FileWatcher) loop() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.done:
			return
		case err, ok := <-fw.fs.Errors:
			if !ok {
				return
			}
			fw.log.WithError(err).Warn("file watcher error")
		case ev, ok := <-fw.fs.Events:
			if !ok {
				return
			}
			fw.handle(ev)
		}
	}
}

func (fw *FileWatcher) handle(ev fsnotify.Event) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			fw.watchTree(ev.Name)
		}
	}

	change, ok := classify(fw.dataDir, ev.Name, ev.Op)
	if !ok {
		return
	}
	fw.pending.trigger(ev.Name, func() { fw.publish(change) })
}

func (fw *FileWatcher) publish(change FileChange) {
	fw.mu.RLock()
	if fw.state != watcherRunning {
		fw.mu.RUnlock()
		return
	}
	subs := append([]FileWatcherSubscriber(nil), fw.subscribers...)
	fw.mu.RUnlock()

	for _, sub := range subs {
		sub.OnFileChange(change)
	}
}

// classify maps a path under dataDir to the change it represents. Paths
// that hold neither a card nor a board config report false.
func classify(dataDir, name string, op fsnotify.Op) (FileChange, bool) {
	typ, ok := changeType(op)
	if !ok {
		return FileChange{}, false
	}
	rel, err := filepath.Rel(dataDir, name)
	if err != nil {
		return FileChange{}, false
	}
	change := FileChange{Type: typ, Path: rel}

	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 || parts[0] != config.BoardsDir {
		return FileChange{}, false
	}
	change.BoardName = parts[1]

	switch {
	case len(parts) == 4 && parts[2] == config.CardsDir && strings.HasSuffix(parts[3], ".json"):
		change.Kind = FileChangeKindCard
		change.CardID = strings.TrimSuffix(parts[3], ".json")
	case len(parts) == 3 && parts[2] == config.ConfigFileName:
		change.Kind = FileChangeKindBoard
	case len(parts) == 2 && typ == FileChangeDeleted:
		// The whole board directory went away.
		change.Kind = FileChangeKindBoard
	default:
		return FileChange{}, false
	}
	return change, true
}

func changeType(op fsnotify.Op) (FileChangeType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return FileChangeCreated, true
	case op.Has(fsnotify.Write):
		return FileChangeModified, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		// A rename reports the old name; the new one arrives as a create.
		return FileChangeDeleted, true
	}
	return "", false
}

// coalescer runs the latest fn per key once the key has been quiet for
// delay.
type coalescer struct {
	delay   time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func newCoalescer(delay time.Duration) *coalescer {
	return &coalescer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (c *coalescer) trigger(key string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if t, ok := c.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		if c.timers[key] != t {
			c.mu.Unlock()
			return
		}
		delete(c.timers, key)
		c.mu.Unlock()
		fn()
	})
	c.timers[key] = t
}

func (c *coalescer) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	for key, t := range c.timers {
		t.Stop()
		delete(c.timers, key)
	}
}
