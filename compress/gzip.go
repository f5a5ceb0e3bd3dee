package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"

	"github.com/icos-cp/cpb/internal/pool"
)

// GzipCodec implements the gzip frame format. It is the codec matching the
// Content-Encoding most HTTP servers negotiate, so content-encoded payload
// responses and .cpb.gz cache files decompress through the same path.
type GzipCodec struct{}

var _ Codec = (*GzipCodec)(nil)

// NewGzipCodec creates a new gzip codec with default compression level.
func NewGzipCodec() GzipCodec {
	return GzipCodec{}
}

// Compress compresses the input data into one gzip frame.
func (c GzipCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses one gzip frame.
func (c GzipCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}
	defer r.Close()

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return buf.Detach(), nil
}
