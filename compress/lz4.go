package compress

import (
	"bytes"
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/icos-cp/cpb/internal/pool"
)

// LZ4Codec implements the LZ4 frame format. The frame format carries its
// own magic bytes, so LZ4-compressed cache files are recognized by Sniff.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 frame codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses the input data into one LZ4 frame.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses one LZ4 frame.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := lz4.NewReader(bytes.NewReader(data))
	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	return buf.Detach(), nil
}
