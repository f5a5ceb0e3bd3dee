package compress

// ZstdCodec implements the Zstandard frame format.
//
// The default build uses the pure-Go klauspost implementation. Building with
// the cgo_zstd tag switches to the cgo-backed gozstd implementation, which
// trades build portability for faster decompression of large payloads.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstandard codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
