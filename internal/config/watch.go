package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the settings file when it changes on disk. The parent
// directory is watched rather than the file itself, so editors that replace
// the file atomically still trigger a reload.
type Watcher struct {
	fs   *fsnotify.Watcher
	path string

	closeOnce sync.Once
	closeCh   chan struct{}
	done      sync.WaitGroup
}

// Watch starts watching path and invokes onChange with each successfully
// reloaded configuration. Unparseable intermediate states are skipped.
func Watch(path string, onChange func(Config)) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(absPath)); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{fs: fs, path: absPath, closeCh: make(chan struct{})}
	w.done.Add(1)
	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func(Config)) {
	defer w.done.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				continue
			}
			onChange(cfg)

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
