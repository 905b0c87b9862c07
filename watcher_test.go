// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package qtcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeNotifyDropsRewrittenFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "q.sql")
	writeFile(t, f, "select 1")

	c := New(WithChangeNotify(), WithCheckInterval(0))
	defer c.Close()

	c.Set("k", "select 1", f)
	require.Equal(t, 1, c.Len())

	writeFile(t, f, "select 2, extra")

	// The entry disappears without any read touching it.
	require.Eventually(t, func() bool { return c.Len() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestChangeNotifyDropsRemovedFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "q.sql")
	writeFile(t, f, "select 1")

	c := New(WithChangeNotify(), WithCheckInterval(0))
	defer c.Close()

	c.Set("k", "select 1", f)
	require.NoError(t, os.Remove(f))

	require.Eventually(t, func() bool { return c.Len() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestChangeNotifyUnwatchedPathsStillFingerprinted(t *testing.T) {
	// A path that cannot be watched (it does not exist) must degrade to the
	// plain stat-at-read behavior, not break the cache.
	c := New(WithChangeNotify(), WithCheckInterval(0))
	defer c.Close()

	absent := filepath.Join(t.TempDir(), "absent")
	c.Set("k", "v", absent)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("k", absent)
	assert.False(t, ok)
}

func TestChangeNotifyCloseStopsEventLoop(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "q.sql")
	writeFile(t, f, "select 1")

	c := New(WithChangeNotify(), WithCheckInterval(0))
	c.Set("k", "select 1", f)

	c.Close()
	c.Close()

	// Events after teardown must not touch the store.
	writeFile(t, f, "select 2")
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, c.Len())
}
