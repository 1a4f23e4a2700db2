package watch

import (
	"os"
	"sync"
	"time"

	"imgbench/internal/errors"
	"imgbench/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileEvent is a created or written regular file seen by the watcher.
type FileEvent struct {
	Path      string
	Size      int64
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors directories for new or changed files using fsnotify.
type Watcher struct {
	directories []string
	events      chan FileEvent
	stopChan    chan struct{}
	done        chan struct{}
	fsWatcher   *fsnotify.Watcher

	// Guards running and directories.
	mutex   sync.RWMutex
	running bool
}

// NewWatcher creates a stopped watcher.
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	return &Watcher{
		directories: []string{},
		events:      make(chan FileEvent, 32),
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory starts watching dir. Adding the same directory twice is a no-op.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("watch directory not found", dir, errors.FileNotFound, err)
		}
		return errors.NewFileError("cannot access watch directory", dir, errors.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Events delivers file events until Stop closes it.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Start runs the event loop in the background.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	select {
	case <-w.done:
		return errors.New("watcher already stopped")
	default:
	}
	w.running = true
	go w.loop(w.stopChan)
	log.Info("Watcher started")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				// Removed again before we got to it.
				if !os.IsNotExist(err) {
					log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}

			fe := FileEvent{
				Path:      event.Name,
				Size:      info.Size(),
				Timestamp: time.Now(),
				Op:        event.Op,
			}
			select {
			case w.events <- fe:
			case <-stop:
				return
			default:
				log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts the watcher and closes the event channel. A stopped watcher
// cannot be restarted.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running {
		return
	}

	close(w.stopChan)
	<-w.done
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	close(w.events)
	log.Info("Watcher stopped")
}

// Close releases a watcher that was never started. Running watchers are
// released by Stop.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher is running")
	}
	return w.fsWatcher.Close()
}

// IsRunning reports whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the watched directories.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return append([]string(nil), w.directories...)
}
