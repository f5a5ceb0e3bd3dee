package compress

import "bytes"

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
	// stream identifier chunk header shared by S2 and Snappy streams
	magicS2 = []byte{0xff, 0x06, 0x00, 0x00}
)

// Sniff inspects the leading bytes of data and reports which codec produced
// it. Data without a recognized frame magic is TypeNone and passes through
// decompression untouched.
//
// The check is heuristic: raw data whose leading bytes happen to coincide
// with a frame magic sniffs as compressed, and Expand then fails on the
// malformed frame. Callers holding data that may legitimately start with
// such bytes should treat an Expand error as "not compressed after all".
func Sniff(data []byte) Type {
	switch {
	case bytes.HasPrefix(data, magicZstd):
		return TypeZstd
	case bytes.HasPrefix(data, magicGzip):
		return TypeGzip
	case bytes.HasPrefix(data, magicLZ4):
		return TypeLZ4
	case bytes.HasPrefix(data, magicS2):
		return TypeS2
	default:
		return TypeNone
	}
}

// Expand decompresses data with the codec Sniff detects. Plain data is
// returned unchanged.
func Expand(data []byte) ([]byte, error) {
	codec, err := GetCodec(Sniff(data))
	if err != nil {
		return nil, err
	}

	return codec.Decompress(data)
}
