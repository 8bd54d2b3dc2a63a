package storage

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dice-group/owlgo/db"
	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/kb"
	"github.com/dice-group/owlgo/logger"
)

// ReloadCallback receives the freshly loaded store after the database file
// changed on disk.
type ReloadCallback func(*kb.MemStore) error

// FileWatcher watches the database file and reloads the knowledge base when
// an external process writes to it. The reloaded store carries a new
// version token, so reasoner caches built on the old snapshot expire.
type FileWatcher struct {
	store          *TripleStore
	dbPath         string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	log            *zap.SugaredLogger
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewFileWatcher creates a watcher over the database file backing the store.
func NewFileWatcher(store *TripleStore, dbPath string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}

	if err := watcher.Add(dbPath); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watch database file %s", dbPath)
	}

	return &FileWatcher{
		store:          store,
		dbPath:         dbPath,
		watcher:        watcher,
		callbacks:      make([]ReloadCallback, 0),
		log:            logger.ChildLogger(logger.ComponentLogger("storage.watcher"), "path", dbPath),
		debouncePeriod: 500 * time.Millisecond, // Debounce rapid file changes
	}, nil
}

// OnReload registers a callback invoked after each successful reload.
func (fw *FileWatcher) OnReload(callback ReloadCallback) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.callbacks = append(fw.callbacks, callback)
}

// Start begins watching for database file changes.
func (fw *FileWatcher) Start() {
	go fw.watchLoop()
}

func (fw *FileWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fw.log.Infow("Knowledge base file changed",
					"op", event.Op.String())
				fw.scheduleReload()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warnw("Knowledge base watcher error",
				"error", err)
		}
	}
}

// scheduleReload debounces rapid file changes and triggers a reload.
func (fw *FileWatcher) scheduleReload() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.debouncePeriod, func() {
		err := fw.reload()
		if err == nil {
			return
		}
		if errors.Is(err, errors.ErrClosed) {
			// The connection is gone for good; further events cannot succeed.
			fw.log.Warnw("Knowledge base connection closed, stopping watcher",
				"error", err)
			fw.Stop()
			return
		}
		fw.log.Errorw("Knowledge base reload failed",
			"error", err)
	})
}

func (fw *FileWatcher) reload() error {
	store, err := fw.store.Load(context.Background())
	if err != nil {
		err = errors.Wrap(err, "reload knowledge base")
		if db.IsDatabaseClosed(err) {
			err = errors.Mark(err, errors.ErrClosed)
		}
		return err
	}

	fw.log.Infow("Knowledge base reloaded",
		"individuals", store.Individuals().Len())

	fw.mu.RLock()
	callbacks := make([]ReloadCallback, len(fw.callbacks))
	copy(callbacks, fw.callbacks)
	fw.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(store); err != nil {
			fw.log.Warnw("Knowledge base reload callback error",
				"error", err)
			// Continue calling other callbacks even if one fails
		}
	}

	return nil
}

// Stop stops watching for database file changes.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}
