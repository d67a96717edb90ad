//go:build intmap_cachelinesize_64

package opt

// CacheLineSize_ is pinned to 64 bytes by the intmap_cachelinesize_64 tag.
// Use: go build -tags=intmap_cachelinesize_64
const CacheLineSize_ = 64
