// Package intmap provides a lock-free, resizable hash map from positive
// int64 keys to positive int64 values.
//
// Tables use open addressing with bounded linear probing. When a table
// runs out of probes, every goroutine that notices links or finds a
// double-capacity successor and helps copy the old table into it before
// retrying. No operation ever blocks on another goroutine.
package intmap

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Map is a lock-free concurrent map from int64 keys to int64 values.
//
// Core properties:
//   - Get, Put and Remove are linearizable per key
//   - Lock-free: a stalled goroutine never stops the others, growth is
//     finished by whoever needs it
//   - Zero-value ready with lazy initialization
//   - Capacity only grows; removed keys leave tombstones until the next
//     migration drops them
//
// Keys must be positive. Values must be positive and below math.MaxInt64,
// which is reserved as the tombstone. Reads report a missing key as 0.
//
// Usage recommendations:
//   - Direct declaration: var m Map
//   - Pre-allocate capacity: NewMap(WithCapacity(1 << 16))
//
// Notes:
//   - Map must not be copied after first use.
type Map struct {
	_       noCopy
	table   atomic.Pointer[table]
	growths atomic.Uint32
}

// NewMap creates a new Map instance. Direct initialization is also
// supported.
//
// Parameters:
//   - options: configuration options (WithCapacity)
func NewMap(options ...func(*MapConfig)) *Map {
	m := &Map{}
	m.withOptions(options...)
	return m
}

// withOptions initializes the Map with the given options. It must only be
// called before the Map is used.
func (m *Map) withOptions(options ...func(*MapConfig)) {
	var cfg MapConfig
	for _, o := range options {
		o(&cfg)
	}
	m.init(&cfg)
}

func (m *Map) init(cfg *MapConfig) *table {
	t := newTable(calcCapacity(cfg.capacity), runtime.GOMAXPROCS(0))
	t.growths = &m.growths
	m.table.Store(t)
	return t
}

// slowInit installs the first table of a zero-value Map. Concurrent
// callers race on a CAS and the losers adopt the winner's table.
//
//go:noinline
func (m *Map) slowInit() *table {
	t := newTable(defaultCapacity, runtime.GOMAXPROCS(0))
	t.growths = &m.growths
	if m.table.CompareAndSwap(nil, t) {
		return t
	}
	return m.table.Load()
}

func (m *Map) load() *table {
	if t := m.table.Load(); t != nil {
		return t
	}
	return m.slowInit()
}

// advance finishes the migration of t and moves the current table past
// it. The CAS fails harmlessly when another goroutine already did.
func (m *Map) advance(t *table) {
	next, _ := t.migrate()
	m.table.CompareAndSwap(t, next)
}

// Get returns the value stored for key, or 0 when the key is absent.
func (m *Map) Get(key int64) (int64, error) {
	if key <= 0 {
		return 0, fmt.Errorf("%w: key must be positive: %d",
			ErrInvalidArgument, key)
	}
	return toPublic(m.get(key)), nil
}

// Put stores value for key and returns the previous value, or 0 when the
// key was absent.
func (m *Map) Put(key, value int64) (int64, error) {
	if key <= 0 {
		return 0, fmt.Errorf("%w: key must be positive: %d",
			ErrInvalidArgument, key)
	}
	if !isValue(value) {
		return 0, fmt.Errorf("%w: value out of range: %d",
			ErrInvalidArgument, value)
	}
	return toPublic(m.put(key, value)), nil
}

// Remove deletes key and returns the value it had, or 0 when the key was
// absent.
func (m *Map) Remove(key int64) (int64, error) {
	if key <= 0 {
		return 0, fmt.Errorf("%w: key must be positive: %d",
			ErrInvalidArgument, key)
	}
	return toPublic(m.put(key, delValue)), nil
}

// Load retrieves a value for the given key, compatible with `sync.Map`.
// Invalid keys are never present.
func (m *Map) Load(key int64) (value int64, ok bool) {
	if key <= 0 {
		return 0, false
	}
	value = toPublic(m.get(key))
	return value, value != 0
}

func (m *Map) get(key int64) int64 {
	for t := m.load(); ; t = m.load() {
		if v, rehash := t.get(key); !rehash {
			return v
		}
		m.advance(t)
	}
}

func (m *Map) put(key, value int64) int64 {
	for t := m.load(); ; t = m.load() {
		if old, rehash := t.put(key, value); !rehash {
			return old
		}
		m.advance(t)
	}
}

// Range compatible with `sync.Map`.
//
// Range is weakly consistent: each key is visited at most once, and a key
// present for the whole call is visited with some value it held during the
// call. When Range meets a migrated pair it helps finish the migration and
// resumes in the newer table, skipping keys it has already passed.
func (m *Map) Range(yield func(key, value int64) bool) {
	var seen map[int64]struct{}
	t := m.load()
	for i := 0; i < len(t.words); i += 2 {
		k := atomic.LoadInt64(&t.words[i])
		if k == nullKey {
			continue
		}
		v := atomic.LoadInt64(&t.words[i+1])
		if v == movedValue {
			seen = t.passed(i, seen)
			m.advance(t)
			t = m.load()
			i = -2
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		if v = toPublic(fromFixed(v)); v != 0 && !yield(k, v) {
			return
		}
	}
}

// All compatible with `sync.Map`.
func (m *Map) All() func(yield func(int64, int64) bool) {
	return m.Range
}

// passed adds the keys of pairs below word end to seen.
func (t *table) passed(end int, seen map[int64]struct{}) map[int64]struct{} {
	if seen == nil {
		seen = make(map[int64]struct{}, end>>1)
	}
	for i := 0; i < end; i += 2 {
		if k := atomic.LoadInt64(&t.words[i]); k != nullKey {
			seen[k] = struct{}{}
		}
	}
	return seen
}

// Capacity returns the number of key/value pairs the current table holds.
// It never decreases.
func (m *Map) Capacity() int {
	return m.load().capacity
}

// Reserve grows the map until its table holds at least capacity pairs,
// rounded up to a power of 2. It is a no-op when the map is already that
// large.
func (m *Map) Reserve(capacity int) {
	if capacity <= 0 {
		return
	}
	want := calcCapacity(capacity)
	for t := m.load(); t.capacity < want; t = m.load() {
		m.advance(t)
	}
}
