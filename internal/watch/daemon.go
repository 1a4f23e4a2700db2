package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"imgbench/internal/client"
	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/internal/workbench"
)

// DaemonStatus is a snapshot of the daemon's counters.
type DaemonStatus struct {
	Running          bool
	WatchDirectories []string
	LastActivity     time.Time
	FilesUploaded    int
	Failures         int
}

// Result reports what happened to one settled file.
type Result struct {
	Path     string
	Ack      client.Ack
	Uploaded bool
	Err      error
}

// Daemon picks images that appear in the watched directories and, when
// auto upload is on, sends each one through the workbench.
type Daemon struct {
	config  *config.Config
	bench   *workbench.Workbench
	watcher *Watcher

	mutex        sync.RWMutex
	pending      map[string]*time.Timer
	callback     func(Result)
	uploaded     int
	failures     int
	lastActivity time.Time
	running      bool

	ready  chan string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDaemon creates a daemon that drives bench. The fsnotify watcher is
// only opened by Start.
func NewDaemon(cfg *config.Config, bench *workbench.Workbench) (*Daemon, error) {
	if cfg == nil || bench == nil {
		return nil, errors.New("watch daemon needs a config and a workbench")
	}
	return &Daemon{
		config:  cfg,
		bench:   bench,
		pending: make(map[string]*time.Timer),
		ready:   make(chan string, 16),
	}, nil
}

// SetCallback registers a function called once per settled file.
func (d *Daemon) SetCallback(cb func(Result)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Start watches the configured directories until ctx is done or Stop is
// called. A failed Start releases its watcher and may be retried.
func (d *Daemon) Start(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.running {
		return errors.New("daemon is already running")
	}

	watcher, err := NewWatcher()
	if err != nil {
		return err
	}
	if err := d.watch(watcher); err != nil {
		if cerr := watcher.Close(); cerr != nil {
			log.LogWithFields(log.F("error", cerr)).Error("Error closing watcher")
		}
		return err
	}

	ctx, d.cancel = context.WithCancel(ctx)
	d.watcher = watcher
	d.running = true
	d.wg.Add(2)
	go d.processEvents(ctx, watcher)
	go d.worker(ctx)

	log.LogWithFields(
		log.F("directories", watcher.Directories()),
		log.F("auto_upload", d.config.Watch.AutoUpload),
		log.F("settle", d.config.Watch.Settle),
	).Info("Watch daemon started")
	return nil
}

func (d *Daemon) watch(watcher *Watcher) error {
	for _, dir := range d.config.Watch.Directories {
		if err := watcher.AddDirectory(dir); err != nil {
			return err
		}
	}
	if len(watcher.Directories()) == 0 {
		return errors.NewConfigError("no directories to watch", "watch.directories", errors.InvalidConfig, nil)
	}
	if err := watcher.Start(); err != nil {
		return errors.Wrap(err, "error starting watcher")
	}
	return nil
}

// Stop halts the daemon and waits for an in-progress upload to return.
func (d *Daemon) Stop() {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return
	}
	d.running = false
	d.cancel()
	for path, timer := range d.pending {
		timer.Stop()
		delete(d.pending, path)
	}
	watcher := d.watcher
	d.mutex.Unlock()

	watcher.Stop()
	d.wg.Wait()
	log.Info("Watch daemon stopped")
}

// Status returns the daemon's counters.
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	var dirs []string
	if d.watcher != nil {
		dirs = d.watcher.Directories()
	}
	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: dirs,
		LastActivity:     d.lastActivity,
		FilesUploaded:    d.uploaded,
		Failures:         d.failures,
	}
}

func (d *Daemon) processEvents(ctx context.Context, watcher *Watcher) {
	defer d.wg.Done()
	for ev := range watcher.Events() {
		if !d.bench.Accepts(filepath.Base(ev.Path)) {
			continue
		}
		d.mutex.Lock()
		d.lastActivity = ev.Timestamp
		d.mutex.Unlock()
		d.schedule(ctx, ev.Path)
	}
}

// schedule (re)arms the settle timer for path, so a file still being
// written is only handled once writes have stopped.
func (d *Daemon) schedule(ctx context.Context, path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.running {
		return
	}
	if timer, ok := d.pending[path]; ok {
		timer.Reset(d.config.Watch.Settle)
		return
	}
	d.pending[path] = time.AfterFunc(d.config.Watch.Settle, func() {
		d.mutex.Lock()
		delete(d.pending, path)
		d.mutex.Unlock()
		select {
		case d.ready <- path:
		case <-ctx.Done():
		}
	})
}

// worker handles settled files one at a time.
func (d *Daemon) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-d.ready:
			d.process(ctx, path)
		}
	}
}

func (d *Daemon) process(ctx context.Context, path string) {
	logger := log.LogWithFields(log.F("component", "watch"), log.F("path", path))

	if !d.config.Watch.AutoUpload {
		if _, err := d.bench.PickPath(path); err != nil {
			logger.With(log.F("error", err)).Warn("Skipping file")
			d.finish(Result{Path: path, Err: err})
			return
		}
		logger.Info("Picked new image")
		d.finish(Result{Path: path})
		return
	}

	sent, ack, err := d.bench.UploadPath(ctx, path)
	if errors.Is(err, errors.ErrUploadInFlight) {
		// Someone else is uploading through the same workbench; try again later.
		logger.Debug("Upload in flight, rescheduling")
		d.schedule(ctx, path)
		return
	}
	if err != nil {
		logger.With(log.F("error", err)).Error("Auto upload failed")
		d.finish(Result{Path: path, Err: err})
		return
	}
	logger.With(log.F("ack", ack.String()), log.F("sent", sent.Path)).Info("Auto upload done")
	d.finish(Result{Path: sent.Path, Ack: ack, Uploaded: true})
}

func (d *Daemon) finish(r Result) {
	d.mutex.Lock()
	switch {
	case r.Err != nil:
		d.failures++
	case r.Uploaded:
		d.uploaded++
	}
	cb := d.callback
	d.mutex.Unlock()

	if cb != nil {
		cb(r)
	}
}
