package intmap

import (
	"math/bits"
	"runtime"
	_ "unsafe" // for linkname

	"github.com/llxisdsh/intmap/internal/opt"
)

// ============================================================================
// Private Constants
// ============================================================================

// cacheLineSize is the size of a cache line in bytes.
const cacheLineSize = opt.CacheLineSize_

const (
	// maxProbes bounds the pairs visited per operation in one generation.
	// Running out means the table is too full or too contended and must
	// grow.
	maxProbes = 8

	// goldenRatio64 is 2^64/φ, the multiplier of the index function.
	goldenRatio64 uint64 = 0x9e3779b97f4a7c15

	// minCapacity is the smallest table capacity, in pairs.
	minCapacity = 2
	// defaultCapacity is used by the zero value and by NewMap without
	// WithCapacity.
	defaultCapacity = 16
	// maxCapacity keeps one table within what the runtime can allocate:
	// 64 TiB of words on 64-bit platforms, 1 GiB on 32-bit ones.
	maxCapacity = 1 << (26 + 16*(intSize/64))
)

// Migration configuration
const (
	// minPairsPerChunk: pairs swept per claimed chunk at minimum
	minPairsPerChunk = 256
	// resizeOverPartition: over-partition factor to reduce migration tail
	// latency
	resizeOverPartition = 8
)

const (
	intSize = 32 << (^uint(0) >> 63) // 32 or 64
)

// ============================================================================
// Utility Functions
// ============================================================================

// calcParallelism calculates the number of chunks a migration is split into.
//
// Parameters:
//   - items: Number of items to process.
//   - threshold: Minimum number of items per chunk.
//   - number of available CPU cores
//
// Returns:
//   - chunkSz: Number of items per chunk
//   - chunks: Number of chunks
//
//go:nosplit
func calcParallelism(items, threshold, cpus int) (chunkSz, chunks int) {
	if items <= threshold {
		return items, 1
	}

	chunks = min(items/threshold, cpus)

	chunkSz = (items + chunks - 1) / chunks

	return chunkSz, chunks
}

// calcCapacity rounds a requested capacity to a legal table capacity.
// Zero or negative requests yield defaultCapacity.
//
//go:nosplit
func calcCapacity(capacity int) int {
	if capacity <= 0 {
		return defaultCapacity
	}
	if capacity >= maxCapacity {
		return maxCapacity
	}
	return max(nextPowOf2(capacity), minCapacity)
}

// calcShift returns the right shift that maps a 64-bit product onto
// [0, capacity).
//
//go:nosplit
func calcShift(capacity int) uint {
	return uint(64 - bits.TrailingZeros64(uint64(capacity)))
}

// nextPowOf2 calculates the smallest power of 2 that is greater than or equal
// to n.
// Compatible with both 32-bit and 64-bit systems.
//
//go:nosplit
func nextPowOf2(n int) int {
	if n <= 0 {
		return 1
	}
	v := n - 1
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	if intSize == 64 {
		v |= v >> 32
	}
	return v + 1
}

// ============================================================================
// Locker Utilities
// ============================================================================

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

func trySpin(spins *int) bool {
	if runtime_canSpin(*spins) {
		*spins++
		runtime_doSpin()
		return true
	}
	return false
}

// delay backs off after a lost CAS. It spins while the runtime allows it
// and then yields; it never sleeps, a lost race only means somebody else
// made progress.
func delay(spins *int) {
	if trySpin(spins) {
		return
	}
	*spins = 0
	runtime.Gosched()
}

// nolint:all
//
//go:linkname runtime_canSpin sync.runtime_canSpin
//goland:noinspection ALL
func runtime_canSpin(i int) bool

// nolint:all
//
//go:linkname runtime_doSpin sync.runtime_doSpin
//goland:noinspection ALL
func runtime_doSpin()
