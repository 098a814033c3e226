// Package dedupe tracks keys that were already seen.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen keys to ensure at-most-once handling.
type Deduper[K comparable] interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key K) bool

	// Unrecord removes a key so it can be recorded again.
	Unrecord(ctx context.Context, key K)

	Size() int64
}

// node is one entry of the insertion-ordered list used in bounded mode.
type node[K comparable] struct {
	key        K
	prev, next *node[K]
}

// inMemoryDeduper keeps seen keys in a map.
// Bounded mode (maxSize > 0) also links entries by insertion order and evicts the oldest.
type inMemoryDeduper[K comparable] struct {
	mu      sync.Mutex
	seen    map[K]*node[K]
	head    *node[K] // newest
	tail    *node[K] // oldest
	maxSize int
	size    atomic.Int64
}

// New creates an in-memory deduper. Unbounded unless WithMaxSize is given.
func New[K comparable](opts ...Option) Deduper[K] {
	var c options
	for _, opt := range opts {
		opt(&c)
	}
	return &inMemoryDeduper[K]{
		seen:    make(map[K]*node[K]),
		maxSize: c.maxSize,
	}
}

func (d *inMemoryDeduper[K]) SeenAndRecord(_ context.Context, key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}

	if d.maxSize <= 0 {
		d.seen[key] = nil
		d.size.Add(1)
		return false
	}

	if len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	n := &node[K]{key: key, next: d.head}
	if d.head != nil {
		d.head.prev = n
	}
	d.head = n
	if d.tail == nil {
		d.tail = n
	}
	d.seen[key] = n
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper[K]) Unrecord(_ context.Context, key K) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, exists := d.seen[key]
	if !exists {
		return
	}
	delete(d.seen, key)
	if n != nil {
		d.unlink(n)
	}
	d.size.Add(-1)
}

// evictOldest drops the tail. Must be called with d.mu held.
func (d *inMemoryDeduper[K]) evictOldest() {
	if d.tail == nil {
		return
	}
	n := d.tail
	delete(d.seen, n.key)
	d.unlink(n)
	d.size.Add(-1)
}

// unlink removes n from the list. Must be called with d.mu held.
func (d *inMemoryDeduper[K]) unlink(n *node[K]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		d.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		d.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// Size returns the current number of entries.
func (d *inMemoryDeduper[K]) Size() int64 {
	return d.size.Load()
}

// Unique returns items with duplicate keys removed. The first occurrence wins and order is kept.
func Unique[T any, K comparable](items []T, key func(T) K) []T {
	out := make([]T, 0, len(items))
	seen := make(map[K]struct{}, len(items))
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
