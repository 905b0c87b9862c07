// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

import "time"

// entry is a single cached value plus the bookkeeping the cache needs to
// expire and evict it. prev/next link it into the recency list so promotion
// and eviction stay O(1).
type entry struct {
	key            string
	value          string
	sourcePath     string // empty means no file-backed invalidation
	createdAt      time.Time
	lastAccessedAt time.Time

	prev, next *entry
}

// expired reports whether the entry has outlived ttl. Age is measured from
// creation, not last access.
func (e *entry) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.createdAt) > ttl
}
