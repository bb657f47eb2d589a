package sprout

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// libraryDebounce drops repeated change events for one file; editors often
// write a file in several steps.
const libraryDebounce = 100 * time.Millisecond

// LibraryWatcher reports changes to behavior library files. Changed paths are
// delivered on Changes; the receiver reloads them on its own goroutine with
// Library.LoadFile.
type LibraryWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	Changes chan string
	Errors  chan error
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// WatchLibrary starts watching the given library files. The containing
// directories are watched so that editors that replace files on save are
// handled.
func WatchLibrary(paths ...string) (*LibraryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		dirs[dir] = true
	}

	lw := &LibraryWatcher{
		watcher: w,
		files:   files,
		Changes: make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go lw.run()
	return lw, nil
}

// Close stops the watcher. Changes and Errors are closed once the watch
// goroutine exits.
func (w *LibraryWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
	})
	return err
}

func (w *LibraryWatcher) run() {
	defer func() {
		close(w.Changes)
		close(w.Errors)
		close(w.doneCh)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < libraryDebounce {
				continue
			}
			last[name] = now
			select {
			case w.Changes <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
