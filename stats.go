// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats is a point-in-time snapshot of the cache, for diagnostics. Taking
// one has no side effects: expired-but-unswept entries are counted, not
// deleted.
type Stats struct {
	// Size is the current live entry count; MaxSize the capacity bound.
	Size    int
	MaxSize int

	// TotalSizeBytes is the summed byte length of every stored value.
	TotalSizeBytes int64

	// ExpiredCount is how many held entries have already outlived the TTL
	// but have not yet been purged by a read or the sweep.
	ExpiredCount int

	// Configuration echoes.
	FileWatchEnabled bool
	TTL              time.Duration

	// Lifetime operation counters.
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d entries (%s), %d expired, %s hits, %s misses, %d evictions, ttl=%s, filewatch=%t",
		s.Size, s.MaxSize,
		humanize.Bytes(uint64(s.TotalSizeBytes)),
		s.ExpiredCount,
		humanize.Comma(int64(s.Hits)),
		humanize.Comma(int64(s.Misses)),
		s.Evictions, s.TTL, s.FileWatchEnabled)
}

// Stats returns a snapshot of the cache's current state and counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{
		Size:             len(c.entries),
		MaxSize:          c.maxSize,
		FileWatchEnabled: c.fileWatch,
		TTL:              c.ttl,
		Hits:             c.hits,
		Misses:           c.misses,
		Evictions:        c.evictions,
		Expirations:      c.expirations,
	}

	now := time.Now()
	for _, e := range c.entries {
		st.TotalSizeBytes += int64(len(e.value))
		if e.expired(now, c.ttl) {
			st.ExpiredCount++
		}
	}
	return st
}
