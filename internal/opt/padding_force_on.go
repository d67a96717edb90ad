//go:build intmap_enable_padding && !intmap_disable_padding

package opt

// PaddingMult_ is force-enabled via the intmap_enable_padding build tag.
// Use: go build -tags=intmap_enable_padding
const PaddingMult_ = 1
