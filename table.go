package intmap

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/intmap/internal/opt"
)

// table is one generation of the map: 2*capacity words interleaving key and
// value, probed linearly downwards. Once a successor is linked through next
// the table only accepts migration writes, and once every pair holds
// movedValue it is dead.
type table struct {
	words    []int64
	capacity int
	shift    uint
	// number of chunks and chunk size, in pairs, for migration
	chunks  int32
	chunkSz int

	//lint:ignore U1000 prevents false sharing
	pad [(cacheLineSize - unsafe.Sizeof(struct {
		words    []int64
		capacity int
		shift    uint
		chunks   int32
		chunkSz  int
	}{})%cacheLineSize) % cacheLineSize * opt.PaddingMult_]byte

	next    atomic.Pointer[table]
	claimed atomic.Int32 // chunks handed out to sweepers
	swept   atomic.Int32 // chunks fully swept
	done    atomic.Bool  // every pair holds movedValue

	// growths is the owning Map's counter, shared by every generation.
	// It is nil for tables built directly by tests.
	growths *atomic.Uint32
}

func newTable(capacity, cpus int) *table {
	chunkSz, chunks := calcParallelism(
		capacity,
		minPairsPerChunk,
		cpus*resizeOverPartition,
	)
	return &table{
		words:    make([]int64, capacity<<1),
		capacity: capacity,
		shift:    calcShift(capacity),
		chunks:   int32(chunks),
		chunkSz:  chunkSz,
	}
}

// index returns the key word of the first pair probed for key.
//
//go:nosplit
func (t *table) index(key int64) int {
	return int((uint64(key)*goldenRatio64)>>t.shift) << 1
}

// prev steps one pair down, wrapping from the bottom to the top.
//
//go:nosplit
func (t *table) prev(i int) int {
	if i == 0 {
		i = len(t.words)
	}
	return i - 2
}

// get returns the stored value for key, which may be the empty or the
// tombstone word. rehash reports that the answer lives in a newer
// generation.
func (t *table) get(key int64) (value int64, rehash bool) {
	i := t.index(key)
	for range maxProbes {
		v := atomic.LoadInt64(&t.words[i+1])
		k := atomic.LoadInt64(&t.words[i])
		if v == movedValue {
			return 0, true
		}
		if k == nullKey {
			break
		}
		if k == key {
			return fromFixed(v), false
		}
		i = t.prev(i)
	}
	// A miss is final only while no successor exists; otherwise the key may
	// already have been written there.
	if t.next.Load() != nil {
		return 0, true
	}
	return nullValue, false
}

// put stores value for key and returns the word it replaced. A value of
// delValue removes the key. rehash reports that the write could not be
// placed in this generation.
func (t *table) put(key, value int64) (old int64, rehash bool) {
	i := t.index(key)
	for probes, spins := 0, 0; probes < maxProbes; {
		k := atomic.LoadInt64(&t.words[i])
		v := atomic.LoadInt64(&t.words[i+1])
		if isFixed(v) {
			return 0, true
		}
		switch k {
		case nullKey:
			// Keys are never unset, so the key cannot live further down.
			if value == delValue {
				return nullValue, false
			}
			if atomic.CompareAndSwapInt64(&t.words[i], nullKey, key) &&
				atomic.CompareAndSwapInt64(&t.words[i+1], nullValue, value) {
				return nullValue, false
			}
		case key:
			if value == delValue && !isValue(v) {
				return v, false
			}
			if atomic.CompareAndSwapInt64(&t.words[i+1], v, value) {
				return v, false
			}
		default:
			i = t.prev(i)
			probes++
			continue
		}
		// Lost a race on this pair; re-read it.
		delay(&spins)
	}
	return 0, true
}

// migrate links the successor table, creating it if needed, and helps
// sweep every pair of t into it. It returns once every pair of t holds
// movedValue. installed reports whether this call linked the successor.
func (t *table) migrate() (next *table, installed bool) {
	next = t.next.Load()
	if next == nil {
		if t.capacity >= maxCapacity {
			panic(fmt.Errorf("%w: table cannot grow past %d pairs",
				ErrProtocolViolation, t.capacity))
		}
		fresh := newTable(t.capacity<<1, runtime.GOMAXPROCS(0))
		fresh.growths = t.growths
		if t.next.CompareAndSwap(nil, fresh) {
			next, installed = fresh, true
			if t.growths != nil {
				t.growths.Add(1)
			}
		} else {
			next = t.next.Load()
		}
	}
	if t.done.Load() {
		return next, installed
	}

	for t.claimed.Load() < t.chunks {
		c := t.claimed.Add(1) - 1
		if c >= t.chunks {
			break
		}
		start := int(c) * t.chunkSz
		end := min(start+t.chunkSz, t.capacity)
		t.sweep(start, end, next)
		if t.swept.Add(1) == t.chunks {
			t.done.Store(true)
			return next, installed
		}
	}

	// Every chunk is handed out but a claimant is still busy. Sweep the
	// whole table rather than wait for it.
	if !t.done.Load() {
		t.sweep(0, t.capacity, next)
		t.done.Store(true)
	}
	return next, installed
}

// sweep migrates pairs [start, end) into next.
func (t *table) sweep(start, end int, next *table) {
	for p := start; p < end; p++ {
		t.movePair(p<<1, next)
	}
}

// movePair freezes the pair at word i, copies a live value into next and
// marks the pair moved. It is idempotent and safe to run concurrently.
func (t *table) movePair(i int, next *table) {
	for spins := 0; ; {
		v := atomic.LoadInt64(&t.words[i+1])
		if v == movedValue {
			return
		}
		if !isFixed(v) {
			if !atomic.CompareAndSwapInt64(&t.words[i+1], v, toFixed(v)) {
				delay(&spins)
				continue
			}
			v = toFixed(v)
			if v == movedValue {
				// was empty
				return
			}
		}
		if plain := fromFixed(v); isValue(plain) {
			// The key word was set before the value, so it is settled.
			next.moveFixed(atomic.LoadInt64(&t.words[i]), plain, &t.words[i+1])
		}
		atomic.CompareAndSwapInt64(&t.words[i+1], v, movedValue)
		return
	}
}

// moveFixed copies value, frozen in the predecessor value word src, into
// t. When t has no room for key, or is itself being migrated, the copy
// goes on to t's successor. A finished t is skipped without probing. The
// copy stops early once src is moved, because then another helper has
// already finished it and the key may have been written or removed since.
func (t *table) moveFixed(key, value int64, src *int64) {
	for {
		if !t.done.Load() && t.place(key, value) {
			return
		}
		if atomic.LoadInt64(src) == movedValue {
			return
		}
		t, _ = t.migrate()
	}
}

// place stores value for key unless the key already holds a value. It
// reports false when the value must go to the successor instead: the
// probe window is full, or the key's pair was sealed by a migration of t.
func (t *table) place(key, value int64) bool {
	i := t.index(key)
	for probes, spins := 0, 0; probes < maxProbes; {
		k := atomic.LoadInt64(&t.words[i])
		if k == nullKey {
			// A sealed empty pair never takes a key.
			if atomic.LoadInt64(&t.words[i+1]) == movedValue {
				return false
			}
			if !atomic.CompareAndSwapInt64(&t.words[i], nullKey, key) {
				delay(&spins)
				continue
			}
			k = key
		}
		if k != key {
			i = t.prev(i)
			probes++
			continue
		}
		switch v := atomic.LoadInt64(&t.words[i+1]); v {
		case nullValue:
			if atomic.CompareAndSwapInt64(&t.words[i+1], nullValue, value) {
				return true
			}
			delay(&spins)
		case movedValue:
			return false
		default:
			// Either the same copy placed by another helper or a newer
			// state. A fixed one is carried on by t's own migration.
			return true
		}
	}
	return false
}
