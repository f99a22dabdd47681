package catalog

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind says what sort of file a reload event is about.
type EventKind int

const (
	// SpecChanged: a catalog spec (.yaml/.yml) was edited.
	SpecChanged EventKind = iota
	// ScriptChanged: a director script (.tengo) was edited.
	ScriptChanged
)

func (k EventKind) String() string {
	if k == ScriptChanged {
		return "script"
	}
	return "spec"
}

// Event is one debounced reload notification.
type Event struct {
	Kind EventKind
	Path string
}

// editors fire bursts of filesystem events per save
const debounceWindow = 100 * time.Millisecond

// Watcher reports edits to catalog spec files and director scripts so a host
// can rebuild a fresh Catalog (or recompile a script) and swap it in. The
// Catalog itself stays immutable; reloading always constructs a new one.
//
// The run goroutine owns Events and Errors and closes both on shutdown;
// Close only signals it, so a send can never race channel closure.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan Event
	Errors chan error
	done   chan struct{}
	once   sync.Once
}

// NewWatcher watches the given directories for spec and script changes.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:     fs,
		Events: make(chan Event, 16),
		Errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Idempotent; Events and Errors close shortly after.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	lastSent := make(map[string]time.Time)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, watched := classify(ev.Name)
			if !watched {
				continue
			}
			now := time.Now()
			if t, seen := lastSent[ev.Name]; seen && now.Sub(t) < debounceWindow {
				continue
			}
			lastSent[ev.Name] = now
			select {
			case w.Events <- Event{Kind: kind, Path: ev.Name}:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// classify maps a path to a reload kind by extension, case-insensitively.
func classify(name string) (EventKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return SpecChanged, true
	case ".tengo":
		return ScriptChanged, true
	default:
		return 0, false
	}
}
