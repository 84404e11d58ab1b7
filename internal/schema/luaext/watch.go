package luaext

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/inkstone/inkstone/internal/schema"
)

// Watcher rebuilds the descriptor set when scripts in the extension directory
// change on disk.
type Watcher struct {
	fs  *fsnotify.Watcher
	dir string

	closeOnce sync.Once
	closeCh   chan struct{}
	done      sync.WaitGroup
}

// Watch starts watching dir and invokes onChange with the full reloaded
// descriptor set after each script change. A directory that fails to load,
// typically because one script is mid-save, is skipped.
func Watch(dir string, onChange func([]*schema.Descriptor)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{fs: fs, dir: dir, closeCh: make(chan struct{})}
	w.done.Add(1)
	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func([]*schema.Descriptor)) {
	defer w.done.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".lua" {
				continue
			}
			descriptors, err := LoadDir(w.dir)
			if err != nil {
				continue
			}
			onChange(descriptors)

		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		w.done.Wait()
	})
	return err
}
