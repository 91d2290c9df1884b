package sync

import (
	"context"
	"errors"
	"path/filepath"
	gosync "sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/splitio/go-toolkit/v5/logging"
)

const defaultDebounce = 500 * time.Millisecond

// ErrWatcherRunning is returned when starting a watcher twice
var ErrWatcherRunning = errors.New("watcher already running")

// Watcher reloads the dataset when its file changes on disk. The parent directory is watched so that
// editors and deploy tools replacing the file through a rename are picked up.
type Watcher struct {
	path         string
	synchronizer *Synchronizer
	logger       logging.LoggerInterface
	debounce     time.Duration
	timeout      time.Duration

	mutex    gosync.Mutex
	watcher  *fsnotify.Watcher
	pending  time.Time
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	reloaded chan struct{} // signalled after every reload attempt, for tests
}

// NewWatcher constructs a watcher for the dataset file at path
func NewWatcher(path string, synchronizer *Synchronizer, timeout time.Duration, logger logging.LoggerInterface) *Watcher {
	return &Watcher{
		path:         filepath.Clean(path),
		synchronizer: synchronizer,
		logger:       logger,
		debounce:     defaultDebounce,
		timeout:      timeout,
		reloaded:     make(chan struct{}, 1),
	}
}

// Start begins watching. It does not block
func (w *Watcher) Start(ctx context.Context) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return ErrWatcherRunning
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	w.watcher = watcher
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true
	go w.run(ctx)
	w.logger.Info("watching dataset file ", w.path)
	return nil
}

// Stop ends the event loop and releases the underlying watcher
func (w *Watcher) Stop(blocking bool) error {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return nil
	}
	w.running = false
	cancel, done, watcher := w.cancel, w.done, w.watcher
	w.mutex.Unlock()

	cancel()
	if blocking {
		<-done
	}
	return watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.debounce / 5)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("dataset watcher error: ", err)
		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("dataset file event: ", event.String())
	w.mutex.Lock()
	w.pending = time.Now()
	w.mutex.Unlock()
}

func (w *Watcher) processPending(ctx context.Context) {
	w.mutex.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mutex.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mutex.Unlock()

	reloadCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if result, err := w.synchronizer.SyncAll(reloadCtx); err != nil {
		w.logger.Error("error reloading dataset after file change: ", err.Error())
	} else if result.Updated {
		w.logger.Info("dataset reloaded after file change")
	}

	select {
	case w.reloaded <- struct{}{}:
	default:
	}
}
