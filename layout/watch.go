// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layout

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a layout document whenever its file changes.
//
// The directory is watched rather than the file itself so that editors
// replacing the file through a rename are still noticed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	fn      func(*Document, error)

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Watch starts watching path. fn is called from the watcher goroutine with
// the reloaded document, or with the error that prevented loading it.
func Watch(path string, fn func(*Document, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("layout: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("layout: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("layout: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		fn:      fn,
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			doc, err := Load(w.path)
			w.fn(doc, err)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.fn(nil, fmt.Errorf("layout: watch %s: %w", w.path, err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
