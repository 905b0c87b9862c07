// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

import (
	"os"
	"time"

	"github.com/apex/log"
)

// Defaults applied by New when an option is omitted or out of range.
const (
	DefaultMaxSize       = 100
	DefaultTTL           = time.Hour
	DefaultCheckInterval = time.Minute
)

type options struct {
	maxSize       int
	ttl           time.Duration
	checkInterval time.Duration
	fileWatch     bool
	changeNotify  bool
	logger        log.Interface
}

// Option configures a Cache at construction time.
type Option func(*options)

// WithMaxSize bounds the number of live entries. Values below 1 are clamped
// to DefaultMaxSize with a logged warning.
func WithMaxSize(n int) Option {
	return func(o *options) { o.maxSize = n }
}

// WithTTL sets the maximum age of an entry, measured from its creation.
// Non-positive values are clamped to DefaultTTL with a logged warning.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithCheckInterval sets the period of the background sweep that purges
// expired entries nobody reads. A non-positive interval disables the sweep;
// lazy expiry on Get still applies.
func WithCheckInterval(d time.Duration) Option {
	return func(o *options) { o.checkInterval = d }
}

// WithFileWatch toggles file-backed invalidation. When disabled, Get and Set
// ignore any source path argument and never stat. This is an escape hatch for
// environments where stat calls are expensive or the backing files are known
// immutable.
func WithFileWatch(enabled bool) Option {
	return func(o *options) { o.fileWatch = enabled }
}

// WithChangeNotify attaches an fsnotify watcher that proactively drops
// entries when their source file changes, instead of waiting for the next
// read to notice. Best-effort: if the watcher cannot be created the cache
// logs a warning and falls back to stat-at-read only. Implies nothing when
// file watching is disabled.
func WithChangeNotify() Option {
	return func(o *options) { o.changeNotify = true }
}

// WithLogger routes the cache's logging through l instead of the apex
// package logger. Handy for callers that attach request or loader context.
func WithLogger(l log.Interface) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts ...Option) options {
	o := options{
		maxSize:       DefaultMaxSize,
		ttl:           DefaultTTL,
		checkInterval: DefaultCheckInterval,
		fileWatch:     true,
		logger:        log.Log,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = log.Log
	}
	if o.maxSize < 1 {
		o.logger.Warnf("invalid max size %d, using %d", o.maxSize, DefaultMaxSize)
		o.maxSize = DefaultMaxSize
	}
	if o.ttl <= 0 {
		o.logger.Warnf("invalid ttl %s, using %s", o.ttl, DefaultTTL)
		o.ttl = DefaultTTL
	}
	if o.fileWatch && !fileWatchAllowed() {
		o.logger.Debug("file watching disabled by QTCACHE_FILEWATCH")
		o.fileWatch = false
	}
	return o
}

// fileWatchAllowed returns true unless the QTCACHE_FILEWATCH environment
// variable explicitly disables stat-based invalidation ("0"/"false").
func fileWatchAllowed() bool {
	v, _ := os.LookupEnv("QTCACHE_FILEWATCH")
	return v == "" || (v != "0" && v != "false")
}
