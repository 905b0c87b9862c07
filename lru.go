// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

// lruList is a doubly-linked recency list threaded through the entries
// themselves. head is the most recently used entry, tail the least. The
// cache's key map doubles as the node index, so every operation here is a
// handful of pointer swaps.
//
// All methods assume the caller holds the cache mutex.
type lruList struct {
	head *entry
	tail *entry
}

// pushFront links e in as the most recently used entry.
func (l *lruList) pushFront(e *entry) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
}

// remove unlinks e, fixing up head/tail as needed.
func (l *lruList) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

// moveToFront marks e as most recently used.
func (l *lruList) moveToFront(e *entry) {
	if l.head == e {
		return
	}
	l.remove(e)
	l.pushFront(e)
}

// back returns the least recently used entry, or nil when the list is empty.
// Entries that have never been read sit in insertion order, so the eviction
// victim among untouched entries is always the oldest insert.
func (l *lruList) back() *entry {
	return l.tail
}

// reset drops every link. The entries themselves are owned by the key map.
func (l *lruList) reset() {
	l.head, l.tail = nil, nil
}
