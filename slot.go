package intmap

import "math"

// Reserved words of a table pair. A value word is in exactly one of these
// states: empty, live (a legal value), tombstone, fixed (a live, empty or
// tombstone value with fixedBit set) or moved.
const (
	nullKey   int64 = 0
	nullValue int64 = 0
	delValue  int64 = math.MaxInt64
	fixedBit  int64 = math.MinInt64
	// movedValue is fixedBit alone, so freezing an empty value seals the
	// pair in one step.
	movedValue = fixedBit
)

// isValue reports whether v is a legal public value.
//
//go:nosplit
func isValue(v int64) bool {
	return v > nullValue && v < delValue
}

// toPublic maps the empty and tombstone words to 0.
//
//go:nosplit
func toPublic(v int64) int64 {
	if isValue(v) {
		return v
	}
	return 0
}

//go:nosplit
func toFixed(v int64) int64 {
	return v | fixedBit
}

//go:nosplit
func fromFixed(v int64) int64 {
	return v &^ fixedBit
}

//go:nosplit
func isFixed(v int64) bool {
	return v&fixedBit != 0
}
