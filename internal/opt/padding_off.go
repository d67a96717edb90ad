//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !intmap_disable_padding && !intmap_enable_padding

package opt

// PaddingMult_ scales the cache-line padding placed between the read-mostly
// table header and the migration counters.
// Padding is disabled by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
const PaddingMult_ = 0
