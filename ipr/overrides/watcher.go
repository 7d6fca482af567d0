// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package overrides

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// ChangeFunc receives a reloaded override set and the groups that changed.
type ChangeFunc func(set OverrideSet, changed []Group)

// Watcher reloads an override document whenever it is written and reports
// the groups that differ from the previously loaded version.
type Watcher struct {
	path     string
	onChange ChangeFunc

	mutex   sync.Mutex
	current OverrideSet
}

// NewWatcher creates a watcher whose first comparison is against initial.
func NewWatcher(path string, initial OverrideSet, onChange ChangeFunc) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		current:  initial,
	}
}

// Current returns the most recently loaded override set.
func (w *Watcher) Current() OverrideSet {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.current
}

// Run watches the document's directory until ctx is done. Editors often
// replace files instead of writing them in place, so the directory is
// watched rather than the file.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	log.Debugf("Watching overrides document %s", w.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.Reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("Overrides watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}

// Reload re-reads the document and notifies about changed groups. Invalid
// documents are logged and ignored, keeping the last good set.
func (w *Watcher) Reload() {
	w.mutex.Lock()
	prev := w.current
	next, err := Load(w.path, prev)
	if err != nil {
		w.mutex.Unlock()
		log.WithError(err).Warnf("Ignoring overrides document %s", w.path)
		return
	}
	w.current = next
	w.mutex.Unlock()

	changed := Changed(prev, next)
	if len(changed) == 0 {
		return
	}
	log.Debugf("Overrides document changed groups %v", changed)
	w.onChange(next, changed)
}
