// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package qtcache is the bounded in-memory cache that sits beneath the query
// template loader. It keeps textual source content (template bodies and the
// like) off the disk-read path while guaranteeing that a cached value never
// outlives a configured TTL, a capacity limit enforced by least-recently-used
// eviction, or a modification of the file it was loaded from.
//
// Entries are plain strings; the cache never interprets them. A value stored
// with a source path is fingerprinted by that file's (mtime, size) pair, and
// any read that finds the fingerprint changed, or the file gone, drops the
// entry and reports a miss so the caller reloads from the authoritative
// source. Expired entries are removed lazily by the read that discovers them
// and proactively by a background sweep.
//
// Failures never escape Get or Set; a stat that cannot be satisfied degrades
// to a logged warning and a cache miss.
package qtcache
