// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package qtcache

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepPurgesUnreadEntries(t *testing.T) {
	c := New(WithTTL(30*time.Millisecond), WithCheckInterval(20*time.Millisecond))
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")

	// Nobody reads these entries; the sweep alone must age them out.
	require.Eventually(t, func() bool { return c.Len() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestSweeperStartIsIdempotent(t *testing.T) {
	var ticks atomic.Int64
	s := newSweeper(10*time.Millisecond, func() { ticks.Add(1) })

	s.start()
	s.start() // must not spawn a second ticker

	require.Eventually(t, func() bool { return ticks.Load() >= 2 },
		2*time.Second, 5*time.Millisecond)
	s.stop()
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	var ticks atomic.Int64
	s := newSweeper(10*time.Millisecond, func() { ticks.Add(1) })

	// stop before start is a no-op.
	s.stop()

	s.start()
	require.Eventually(t, func() bool { return ticks.Load() >= 1 },
		2*time.Second, 5*time.Millisecond)

	s.stop()
	s.stop()

	// No further ticks after a synchronous stop.
	n := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, ticks.Load())
}

func TestSweeperRestart(t *testing.T) {
	var ticks atomic.Int64
	s := newSweeper(10*time.Millisecond, func() { ticks.Add(1) })

	s.start()
	require.Eventually(t, func() bool { return ticks.Load() >= 1 },
		2*time.Second, 5*time.Millisecond)
	s.stop()

	n := ticks.Load()
	s.start()
	require.Eventually(t, func() bool { return ticks.Load() > n },
		2*time.Second, 5*time.Millisecond)
	s.stop()
}
