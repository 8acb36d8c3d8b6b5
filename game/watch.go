package game

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file has to be quiet before we report it. Editors
// tend to write a file several times when saving.
const debounce = 100 * time.Millisecond

// Watcher reports changes to map documents, tilesets & their images in a
// set of directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher starts watching `dirs`.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher & closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	// file name -> when it will have been quiet long enough
	pending := make(map[string]time.Time)

	var timer *time.Timer
	var fire <-chan time.Time
	rearm := func() {
		if timer != nil {
			timer.Stop()
		}
		fire = nil

		var next time.Time
		for _, due := range pending {
			if next.IsZero() || due.Before(next) {
				next = due
			}
		}
		if next.IsZero() {
			return
		}
		timer = time.NewTimer(time.Until(next))
		fire = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isMapAsset(event.Name) {
				continue
			}
			pending[event.Name] = time.Now().Add(debounce)
			rearm()
		case now := <-fire:
			for name, due := range pending {
				if due.After(now) {
					continue
				}
				delete(pending, name)
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			rearm()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				// the step loop hasn't read the last one yet
			}
		case <-w.closeCh:
			return
		}
	}
}

func isMapAsset(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tmx", ".tsx", ".png":
		return true
	}
	return false
}
