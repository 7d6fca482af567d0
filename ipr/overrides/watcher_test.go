// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package overrides

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mutex   sync.Mutex
	sets    []OverrideSet
	changes [][]Group
}

func (r *changeRecorder) onChange(set OverrideSet, changed []Group) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sets = append(r.sets, set)
	r.changes = append(r.changes, changed)
}

func (r *changeRecorder) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.changes)
}

func TestWatcherReloadReportsChangedGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	recorder := &changeRecorder{}
	w := NewWatcher(path, validSet(), recorder.onChange)

	require.NoError(t, os.WriteFile(path, []byte("aaSamples: 6\ntextureRepeat: 8\n"), 0o644))
	w.Reload()
	require.Equal(t, 1, recorder.count())
	assert.Equal(t, []Group{GroupAASamples, GroupTextureRepeat}, recorder.changes[0])
	assert.Equal(t, 6, w.Current().AASamples)

	// unchanged document does not notify
	w.Reload()
	assert.Equal(t, 1, recorder.count())

	// invalid document keeps the last good set
	require.NoError(t, os.WriteFile(path, []byte("aaSamples: 600\n"), 0o644))
	w.Reload()
	assert.Equal(t, 1, recorder.count())
	assert.Equal(t, 6, w.Current().AASamples)
}

func TestWatcherRunPicksUpWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolution: 100\n"), 0o644))

	recorder := &changeRecorder{}
	w := NewWatcher(path, validSet(), recorder.onChange)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// a sibling file never triggers a reload
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("resolution: 10\n"), 0o644))

	// keep rewriting until the watcher is registered and sees a write
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("resolution: 25\n"), 0o644)
		return recorder.count() > 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Equal(t, 1, recorder.count())
	assert.Equal(t, 25, w.Current().Resolution)
	assert.Equal(t, []Group{GroupResolution}, recorder.changes[0])
}
