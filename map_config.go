package intmap

// ============================================================================
// Configuration
// ============================================================================

// MapConfig defines configurable options for Map initialization.
// The probe budget, the index multiplier and the reserved value range are
// package constants and cannot be configured.
type MapConfig struct {
	// capacity is the number of key/value pairs the first table holds.
	// It is rounded up to the next power of 2. If zero or negative, the
	// default capacity will be used.
	capacity int
}

// WithCapacity configures the capacity, in key/value pairs, of the first
// table of a new Map. Tables only ever double, so the capacity is also
// the smallest the map will ever have. If cap is zero or negative, the
// value is ignored. Larger requests are clamped to the package limit.
//
// The first table is allocated eagerly, so the caller must keep cap
// within available memory: each pair takes 16 bytes.
//
// Usage:
//
//	m := NewMap(WithCapacity(1 << 20))
func WithCapacity(cap int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.capacity = cap
	}
}
