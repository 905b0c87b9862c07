// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

import (
	"sync"

	"github.com/apex/log"
	"github.com/fsnotify/fsnotify"
)

// watcher pushes file-change invalidation into the cache instead of waiting
// for the next read to stat. It watches each tracked source path and drops
// every entry derived from a path on any write, remove, rename, or chmod.
//
// Strictly best-effort: dropped or missed events cost nothing, because the
// read path still re-stats before serving.
type watcher struct {
	fs  *fsnotify.Watcher
	c   *Cache
	log log.Interface
	wg  sync.WaitGroup
}

func newWatcher(c *Cache, l log.Interface) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fs: fs, c: c, log: l}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// add starts watching path. Failures are logged and otherwise ignored; the
// stat fingerprint still protects the entry.
func (w *watcher) add(path string) {
	if err := w.fs.Add(path); err != nil {
		w.log.WithError(err).Warnf("cannot watch %s", path)
	}
}

// remove stops watching path. The path may already be gone from the watch
// set (fsnotify drops deleted files on its own), so errors are ignored.
func (w *watcher) remove(path string) {
	_ = w.fs.Remove(path)
}

// close tears the watcher down and waits for the event loop to exit.
func (w *watcher) close() {
	_ = w.fs.Close()
	w.wg.Wait()
}

func (w *watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) != 0 {
				w.c.invalidatePath(event.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("file watch error")
		}
	}
}
