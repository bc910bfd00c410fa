package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when NewWatcher gets zero.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports changes anywhere beneath a library root.
//
// fsnotify watches single directories, so every directory under the root
// is registered at start and new directories are added as they appear.
// Bursts of events are collapsed: one signal is sent on Events after no
// change has been seen for the debounce interval.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	events chan struct{}
	errors chan error

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// NewWatcher starts watching root and all of its subdirectories.
func NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	abs, err := resolveDir(root)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		events:   make(chan struct{}, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}

	if err := w.addTree(abs); err != nil {
		fw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Events delivers one value per settled burst of changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Errors delivers watcher errors. Errors are dropped when nobody reads.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and waits for its goroutine to exit. Calling
// Close more than once is safe.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				// A new directory needs its own watch; failures surface on Errors.
				if err := w.addTree(event.Name); err != nil {
					w.sendError(err)
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)

		case <-timer.C:
			select {
			case w.events <- struct{}{}:
			default:
			}
		}
	}
}

// addTree registers path and every directory beneath it. Non-directories
// are ignored.
func (w *Watcher) addTree(path string) error {
	return filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
