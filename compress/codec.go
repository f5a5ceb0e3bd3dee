// Package compress provides the compression codecs used for cached and
// transferred payloads.
//
// The payload of a data object is a raw binary block, but cache files may be
// stored compressed and remote responses may arrive content-encoded. All
// codecs here are frame formats with recognizable magic bytes, so Sniff can
// pick the right decompressor from the data itself; plain payloads fall
// through to the no-op codec untouched.
package compress

import "fmt"

// Type identifies a compression codec.
type Type uint8

const (
	TypeNone Type = iota + 1 // TypeNone represents no compression.
	TypeGzip                 // TypeGzip represents the gzip frame format.
	TypeZstd                 // TypeZstd represents the Zstandard frame format.
	TypeLZ4                  // TypeLZ4 represents the LZ4 frame format.
	TypeS2                   // TypeS2 represents the S2/Snappy stream format.
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeGzip:
		return "Gzip"
	case TypeZstd:
		return "Zstd"
	case TypeLZ4:
		return "LZ4"
	case TypeS2:
		return "S2"
	default:
		return "Unknown"
	}
}

// Compressor compresses one complete payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses one complete payload.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// result. It returns an error if the data is corrupted or was not
	// produced by the matching Compressor.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	TypeNone: NewNoOpCodec(),
	TypeGzip: NewGzipCodec(),
	TypeZstd: NewZstdCodec(),
	TypeLZ4:  NewLZ4Codec(),
	TypeS2:   NewS2Codec(),
}

// GetCodec retrieves the built-in Codec for the given compression type.
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", t)
}
