//go:build intmap_cachelinesize_128 && !intmap_cachelinesize_64

package opt

// CacheLineSize_ is pinned to 128 bytes by the intmap_cachelinesize_128 tag.
// Use: go build -tags=intmap_cachelinesize_128
const CacheLineSize_ = 128
