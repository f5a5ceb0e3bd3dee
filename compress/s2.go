package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/icos-cp/cpb/internal/pool"
)

// S2Codec implements the S2 stream format (a Snappy extension).
type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates a new S2 stream codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Compress compresses the input data into one S2 stream.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses one S2 stream.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := s2.NewReader(bytes.NewReader(data))
	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return buf.Detach(), nil
}
