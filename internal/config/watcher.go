package config

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration file on change and notifies a
// callback with the freshly loaded Config. Reload failures are logged
// and the previous configuration stays in effect.
type Watcher struct {
	fw       *fsnotify.Watcher
	path     string
	onChange func(Config)
	done     chan struct{}
}

// NewWatcher watches the given config file. The parent directory is
// watched, not the file itself, so editors that replace the file on
// save still trigger a reload.
func NewWatcher(path string, onChange func(Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:       fw,
		path:     path,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				log.Error("config reload failed", "path", w.path, "err", err)
				continue
			}
			log.Info("config reloaded", "path", w.path)
			w.onChange(cfg)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Error("config watcher error", "err", err)

		case <-w.done:
			return
		}
	}
}

// Close stops watching. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
