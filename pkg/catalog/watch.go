package catalog

import (
	"fmt"
	"path/filepath"
	"sync"

	"gopkg.in/fsnotify.v1"
)

// Watcher reloads a catalog whenever its file is written or recreated.
type Watcher struct {
	catalog  *Catalog
	path     string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// OnChange, if set, is called after every reload attempt with the
	// entries now in effect and the reload error, if any. A failed reload
	// keeps the previous entries.
	OnChange func(entries []Entry, err error)
}

// Watch starts watching path and reloading it into c. The directory is
// watched rather than the file so that editors which replace the file on
// save are handled.
func Watch(c *Catalog, path string, onChange func(entries []Entry, err error)) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("no catalog file configured for watching")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	directory := filepath.Dir(path)
	if err := fsWatcher.Add(directory); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching directory %s: %w", directory, err)
	}

	catalogWatcher := &Watcher{
		catalog:  c,
		path:     filepath.Clean(path),
		watcher:  fsWatcher,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		OnChange: onChange,
	}
	go catalogWatcher.watchLoop()

	return catalogWatcher, nil
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(err)
		}
	}
}

func (w *Watcher) reload() {
	entries, err := LoadFile(w.path)
	if err == nil {
		err = w.catalog.Replace(entries)
	}
	w.notify(err)
}

func (w *Watcher) notify(err error) {
	if w.OnChange != nil {
		w.OnChange(w.catalog.Entries(), err)
	}
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()
		<-w.done
	})
}
