// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

import (
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
)

// Cache is a bounded, TTL-expiring, file-invalidating store of opaque string
// values. All operations are safe for concurrent use; one mutex guards the
// entry map, the recency list, and the fingerprint tracker, and is held
// across every check-then-delete so two readers can never race an
// invalidation.
type Cache struct {
	mu sync.Mutex

	maxSize   int
	ttl       time.Duration
	fileWatch bool
	log       log.Interface

	entries map[string]*entry
	lru     lruList
	track   tracker

	sw      *sweeper
	watcher *watcher

	closed    bool
	closeOnce sync.Once

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New builds a Cache and, unless disabled by the options, starts its
// background sweep. Callers own the result and must Close it to stop the
// sweep and release any file watches.
func New(opts ...Option) *Cache {
	o := newOptions(opts...)

	c := &Cache{
		maxSize:   o.maxSize,
		ttl:       o.ttl,
		fileWatch: o.fileWatch,
		log:       o.logger,
		entries:   make(map[string]*entry),
		track:     newTracker(),
	}

	if o.checkInterval > 0 {
		c.sw = newSweeper(o.checkInterval, c.sweep)
		c.sw.start()
	}

	if o.fileWatch && o.changeNotify {
		w, err := newWatcher(c, o.logger)
		if err != nil {
			o.logger.WithError(err).Warn("change notify unavailable, relying on stat at read time")
		} else {
			c.watcher = w
		}
	}

	return c
}

// Set stores value under key. An optional source path ties the entry's
// lifetime to that file: the path is fingerprinted now and every
// path-qualified read re-checks it. Replacing an existing key resets its age
// and recency but never triggers an eviction; a brand-new key at capacity
// evicts the least recently used entry first.
//
// A source path that cannot be stat'ed is logged and tolerated; the entry
// is still stored, and the missing fingerprint surfaces as a miss on the
// next path-qualified read.
func (c *Cache) Set(key, value string, sourcePath ...string) {
	path := c.pathArg(sourcePath)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	now := time.Now()

	if e, ok := c.entries[key]; ok {
		c.releasePathLocked(e.sourcePath)
		e.value = value
		e.sourcePath = path
		e.createdAt = now
		e.lastAccessedAt = now
		c.lru.moveToFront(e)
		c.trackLocked(path)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	e := &entry{
		key:            key,
		value:          value,
		sourcePath:     path,
		createdAt:      now,
		lastAccessedAt: now,
	}
	c.entries[key] = e
	c.lru.pushFront(e)
	c.trackLocked(path)
}

// Get returns the value stored under key, if it is still alive. A read that
// finds the entry expired, or its source file changed, missing, or never
// fingerprinted, deletes the entry and reports a miss. A successful read
// promotes the entry to most recently used.
func (c *Cache) Get(key string, sourcePath ...string) (string, bool) {
	path := c.pathArg(sourcePath)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", false
	}

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return "", false
	}

	now := time.Now()
	if e.expired(now, c.ttl) {
		c.removeLocked(e)
		c.expirations++
		c.misses++
		return "", false
	}

	if path != "" {
		prior, ok := c.track.get(path)
		if !ok {
			c.removeLocked(e)
			c.misses++
			c.log.Warnf("no fingerprint for %s, invalidating %q", path, key)
			return "", false
		}
		stale, err := changed(path, prior)
		if err != nil {
			c.removeLocked(e)
			c.misses++
			c.log.WithError(err).Warnf("source not statable, invalidating %q", key)
			return "", false
		}
		if stale {
			c.removeLocked(e)
			c.misses++
			c.log.Debugf("%s changed, invalidating %q", path, key)
			return "", false
		}
	}

	e.lastAccessedAt = now
	c.lru.moveToFront(e)
	c.hits++
	return e.value, true
}

// Delete removes key and reports whether anything was removed.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(e)
	return true
}

// Clear empties the cache unconditionally, dropping every entry, fingerprint,
// and file watch.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.clearLocked()
}

// Len returns the number of entries currently held, including any that have
// expired but not yet been noticed by a read or the sweep. No side effects.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the live keys in lexical order. No side effects.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close stops the background sweep, releases any file watches, and empties
// the cache. Safe to call more than once; every call after the first is a
// no-op, and all other operations on a closed cache are no-ops too.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		if c.sw != nil {
			c.sw.stop()
		}

		c.mu.Lock()
		c.closed = true
		w := c.watcher
		c.watcher = nil
		c.clearLocked()
		c.mu.Unlock()

		if w != nil {
			w.close()
		}
	})
}

// pathArg reduces the variadic source path to at most one element, and to
// nothing at all when file watching is disabled.
func (c *Cache) pathArg(sourcePath []string) string {
	if !c.fileWatch || len(sourcePath) == 0 {
		return ""
	}
	return sourcePath[0]
}

// trackLocked fingerprints path for a just-stored entry. The ref is taken
// unconditionally so release stays balanced with entry lifetime even when
// the snapshot fails.
func (c *Cache) trackLocked(path string) {
	if path == "" {
		return
	}
	c.track.retain(path)
	stat, err := snapshot(path)
	if err != nil {
		c.log.WithError(err).Warnf("cannot fingerprint %s, staleness assumed on read", path)
		return
	}
	c.track.record(path, stat)
	if c.watcher != nil {
		c.watcher.add(path)
	}
}

// releasePathLocked drops one reference to path, unwatching it when the last
// entry derived from it goes away.
func (c *Cache) releasePathLocked(path string) {
	if path == "" {
		return
	}
	if c.track.release(path) && c.watcher != nil {
		c.watcher.remove(path)
	}
}

// removeLocked is the single deletion path. Lazy expiry, the sweep, LRU
// eviction, explicit deletes, and change-notify invalidation all go through
// here so fingerprint bookkeeping cannot drift.
func (c *Cache) removeLocked(e *entry) {
	delete(c.entries, e.key)
	c.lru.remove(e)
	c.releasePathLocked(e.sourcePath)
}

// evictOldestLocked removes the least recently used entry to make room.
func (c *Cache) evictOldestLocked() {
	victim := c.lru.back()
	if victim == nil {
		return
	}
	c.removeLocked(victim)
	c.evictions++
	c.log.Debugf("evicted %q", victim.key)
}

func (c *Cache) clearLocked() {
	if c.watcher != nil {
		for _, p := range c.track.paths() {
			c.watcher.remove(p)
		}
	}
	c.entries = make(map[string]*entry)
	c.lru.reset()
	c.track.clear()
}

// sweep is the background tick: it deletes every TTL-expired entry through
// the same path as lazy expiry. File staleness is deliberately not checked
// here; that only matters at read time.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	now := time.Now()
	removed := 0
	for _, e := range c.entries {
		if e.expired(now, c.ttl) {
			c.removeLocked(e)
			removed++
		}
	}
	if removed > 0 {
		c.expirations += uint64(removed)
		c.log.Debugf("sweep removed %d expired entries", removed)
	}
}

// invalidatePath drops every entry derived from path. Called by the
// change-notify watcher; a torn-down cache ignores late events.
func (c *Cache) invalidatePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	var doomed []*entry
	for _, e := range c.entries {
		if e.sourcePath == path {
			doomed = append(doomed, e)
		}
	}
	for _, e := range doomed {
		c.removeLocked(e)
	}
	if len(doomed) > 0 {
		c.log.Debugf("%s changed, dropped %d entries", path, len(doomed))
	}
}
