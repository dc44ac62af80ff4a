// Package watch notifies when the contact log changes on disk. Loggers
// append or rewrite the ADIF file at their own pace, so detection waits for
// the file size to settle before firing.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher fires onChange after the watched file is modified and its size has
// stabilized. It combines inotify events with a polling fallback for
// filesystems that do not deliver them.
type Watcher struct {
	path     string
	onChange func()

	pollInterval   time.Duration
	settleInterval time.Duration
}

// New watches path. onChange runs on the watcher goroutine.
func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:           path,
		onChange:       onChange,
		pollInterval:   time.Second,
		settleInterval: 250 * time.Millisecond,
	}
}

// Run blocks until ctx is canceled. The watch survives the file being
// replaced, which is how most loggers save.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch the directory, not the file: renames and editor save dances
	// would silently drop a file-level watch.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		log.Printf("watch: %s: %v (polling only)", filepath.Dir(w.path), err)
	}
	base := filepath.Base(w.path)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	lastSize, lastMod := w.stat()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				continue
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

		case err, ok := <-fsw.Errors:
			if ok && err != nil {
				log.Printf("watch: %v", err)
			}
			continue

		case <-ticker.C:
			size, mod := w.stat()
			if size == lastSize && mod.Equal(lastMod) {
				continue
			}
		}

		if err := w.settle(ctx); err != nil {
			return err
		}
		w.drain(fsw)
		lastSize, lastMod = w.stat()
		w.onChange()
	}
}

// settle waits until two consecutive size checks agree, so a log mid-write
// is never read half-flushed.
func (w *Watcher) settle(ctx context.Context) error {
	prev, _ := w.stat()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settleInterval):
		}
		cur, _ := w.stat()
		if cur == prev {
			return nil
		}
		prev = cur
	}
}

// drain discards events queued while we were settling; they all describe the
// write burst that was just handled.
func (w *Watcher) drain(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-fsw.Events:
		default:
			return
		}
	}
}

func (w *Watcher) stat() (int64, time.Time) {
	fi, err := os.Stat(w.path)
	if err != nil {
		return -1, time.Time{}
	}
	return fi.Size(), fi.ModTime()
}
