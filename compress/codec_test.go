package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePayload() []byte {
	// repetitive enough that every codec actually shrinks it
	return bytes.Repeat([]byte("ICOS carbon portal binary payload "), 64)
}

func TestCodecRoundTrip(t *testing.T) {
	codecs := map[string]Codec{
		"Gzip": NewGzipCodec(),
		"Zstd": NewZstdCodec(),
		"LZ4":  NewLZ4Codec(),
		"S2":   NewS2Codec(),
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			data := samplePayload()

			compressed, err := codec.Compress(data)
			require.NoError(t, err)
			require.NotEmpty(t, compressed)
			require.Less(t, len(compressed), len(data))

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, decompressed)
		})
	}
}

func TestNoOpCodec(t *testing.T) {
	codec := NewNoOpCodec()
	data := []byte{0x01, 0x02, 0x03}

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestEmptyInput(t *testing.T) {
	for _, codec := range []Codec{NewGzipCodec(), NewZstdCodec(), NewLZ4Codec(), NewS2Codec()} {
		compressed, err := codec.Compress(nil)
		require.NoError(t, err)
		require.Nil(t, compressed)

		decompressed, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Nil(t, decompressed)
	}
}

func TestCorruptedInput(t *testing.T) {
	// valid magic, garbage body
	data := append([]byte{0x28, 0xb5, 0x2f, 0xfd}, bytes.Repeat([]byte{0xde}, 32)...)
	_, err := NewZstdCodec().Decompress(data)
	require.Error(t, err)
}

func TestSniff(t *testing.T) {
	data := samplePayload()

	cases := map[Type]Codec{
		TypeGzip: NewGzipCodec(),
		TypeZstd: NewZstdCodec(),
		TypeLZ4:  NewLZ4Codec(),
		TypeS2:   NewS2Codec(),
	}
	for want, codec := range cases {
		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Equal(t, want, Sniff(compressed), want.String())
	}

	require.Equal(t, TypeNone, Sniff(data))
	require.Equal(t, TypeNone, Sniff(nil))
}

func TestExpand(t *testing.T) {
	t.Run("CompressedData", func(t *testing.T) {
		data := samplePayload()
		compressed, err := NewGzipCodec().Compress(data)
		require.NoError(t, err)

		expanded, err := Expand(compressed)
		require.NoError(t, err)
		require.Equal(t, data, expanded)
	})

	t.Run("PlainDataPassesThrough", func(t *testing.T) {
		data := []byte{0x00, 0x01, 0x02, 0x03}
		expanded, err := Expand(data)
		require.NoError(t, err)
		require.Equal(t, data, expanded)
	})
}

func TestGetCodec(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeGzip, TypeZstd, TypeLZ4, TypeS2} {
		codec, err := GetCodec(typ)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := GetCodec(Type(0xff))
	require.Error(t, err)
}
