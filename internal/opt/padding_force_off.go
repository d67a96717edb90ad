//go:build intmap_disable_padding

package opt

// PaddingMult_ is force-disabled via the intmap_disable_padding build tag.
// Use: go build -tags=intmap_disable_padding
const PaddingMult_ = 0
