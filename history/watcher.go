package history

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/logger"
)

// Handler receives commands appended to a history file, oldest first.
type Handler func(path string, commands []string)

// tail tracks how far a file has been consumed.
type tail struct {
	path    string
	format  Format
	offset  int64
	partial []byte // bytes after the last newline
	timer   *time.Timer
}

// Watcher follows history files and reports newly appended commands.
// Only lines written after the watcher was created are reported.
type Watcher struct {
	mu       sync.Mutex
	tails    map[string]*tail
	fs       *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	logger   *zap.SugaredLogger
	started  bool
	stopped  bool
	inflight sync.WaitGroup // scheduled consume callbacks
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *zap.SugaredLogger) WatcherOption {
	return func(w *Watcher) { w.logger = logger.OrNop(l) }
}

// NewWatcher watches paths. Files that do not exist yet are picked up when
// created, as long as their directory exists.
func NewWatcher(paths []string, debounce time.Duration, handler Handler, opts ...WatcherOption) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.NewInvalidRequestError("no history files to watch")
	}
	if handler == nil {
		return nil, errors.NewInvalidRequestError("history watcher needs a handler")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		tails:    make(map[string]*tail, len(paths)),
		fs:       fw,
		handler:  handler,
		debounce: debounce,
		logger:   logger.ComponentLogger("history.watcher"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Directories, not files: shells often rewrite history by rename
	dirs := make(map[string]struct{})
	for _, p := range paths {
		p = filepath.Clean(p)
		t := &tail{path: p, format: DetectFormat(p)}
		if info, err := os.Stat(p); err == nil {
			t.offset = info.Size()
		}
		w.tails[p] = t
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch history directory %s", dir)
		}
	}
	return w, nil
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.loop()
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule(filepath.Clean(event.Name))

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("History watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.tails[path]
	if !ok || w.stopped {
		return
	}
	if t.timer != nil && t.timer.Stop() {
		w.inflight.Done()
	}
	w.inflight.Add(1)
	t.timer = time.AfterFunc(w.debounce, func() {
		defer w.inflight.Done()
		w.consume(path)
	})
}

// Sync reads whatever has been appended to every file since the last read.
func (w *Watcher) Sync() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.tails))
	for p := range w.tails {
		paths = append(paths, p)
	}
	w.mu.Unlock()

	for _, p := range paths {
		w.consume(p)
	}
}

func (w *Watcher) consume(path string) {
	w.mu.Lock()
	t, ok := w.tails[path]
	if !ok {
		w.mu.Unlock()
		return
	}
	cmds, err := t.readNew()
	w.mu.Unlock()

	if err != nil {
		w.logger.Warnw("Could not read history file", logger.FieldFile, path, logger.FieldError, err)
		return
	}
	if len(cmds) == 0 {
		return
	}
	w.logger.Debugw("New history lines", logger.FieldFile, path, logger.FieldCount, len(cmds))
	w.handler(path, cmds)
}

// readNew returns complete commands written since the last call.
// A file smaller than the remembered offset was truncated or replaced and
// is read again from the start.
func (t *tail) readNew() ([]string, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			t.offset, t.partial = 0, nil
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		t.offset, t.partial = 0, nil
	}
	if info.Size() == t.offset {
		return nil, nil
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	t.offset += int64(len(data))

	buf := append(t.partial, data...)
	cut := bytes.LastIndexByte(buf, '\n')
	if cut < 0 {
		t.partial = buf
		return nil, nil
	}
	complete := buf[:cut+1]
	t.partial = append([]byte(nil), buf[cut+1:]...)
	return Read(bytes.NewReader(complete), t.format)
}

// Stop stops watching, cancels pending reads and waits for a read that
// is already delivering to the handler.
func (w *Watcher) Stop() error {
	err := w.fs.Close()

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}

	w.mu.Lock()
	w.stopped = true
	for _, t := range w.tails {
		if t.timer != nil && t.timer.Stop() {
			w.inflight.Done()
		}
	}
	w.mu.Unlock()

	w.inflight.Wait()
	return err
}
