// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

import (
	"fmt"
	"os"
	"time"
)

// FileStat is a cheap staleness fingerprint for a source file: its
// modification time and byte length at the moment it was snapshotted.
type FileStat struct {
	ModTime time.Time
	Size    int64
}

// snapshot performs a single stat of path and returns its fingerprint.
func snapshot(path string) (FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStat{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return FileStat{ModTime: info.ModTime(), Size: info.Size()}, nil
}

// changed re-stats path and compares against a prior snapshot. It returns
// true on any stat failure or any mtime/size difference; false only on an
// exact match. Uncertainty always resolves to "changed" so stale content is
// never served silently.
func changed(path string, prior FileStat) (bool, error) {
	cur, err := snapshot(path)
	if err != nil {
		return true, err
	}
	return cur.Size != prior.Size || !cur.ModTime.Equal(prior.ModTime), nil
}

// tracker holds one fingerprint per source path, refcounted by the number of
// live entries derived from that path. A fingerprint exists only while at
// least one live entry references its path; the last release removes it.
//
// refs and stats diverge on purpose: an entry whose initial snapshot failed
// still holds a ref (so bookkeeping stays balanced) but contributes no stat,
// and a path-qualified read that finds no stat treats the entry as stale.
//
// All methods assume the caller holds the cache mutex.
type tracker struct {
	stats map[string]FileStat
	refs  map[string]int
}

func newTracker() tracker {
	return tracker{
		stats: make(map[string]FileStat),
		refs:  make(map[string]int),
	}
}

// retain records one more live entry for path.
func (t *tracker) retain(path string) {
	t.refs[path]++
}

// release records one fewer live entry for path. It returns true when that
// was the last reference, meaning the fingerprint (and any watch on the
// path) should be dropped.
func (t *tracker) release(path string) bool {
	t.refs[path]--
	if t.refs[path] > 0 {
		return false
	}
	delete(t.refs, path)
	delete(t.stats, path)
	return true
}

// record stores the fingerprint for path, replacing any prior snapshot.
// Re-snapshotting is cheap and idempotent, so a later Set on a shared path
// simply refreshes it.
func (t *tracker) record(path string, stat FileStat) {
	t.stats[path] = stat
}

// get returns the stored fingerprint for path, if one exists.
func (t *tracker) get(path string) (FileStat, bool) {
	stat, ok := t.stats[path]
	return stat, ok
}

// paths returns every path currently holding a reference.
func (t *tracker) paths() []string {
	out := make([]string, 0, len(t.refs))
	for p := range t.refs {
		out = append(out, p)
	}
	return out
}

// clear drops all fingerprints and references.
func (t *tracker) clear() {
	t.stats = make(map[string]FileStat)
	t.refs = make(map[string]int)
}
