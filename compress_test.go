package dirsnap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("dirsnap round trip payload "), 512)

	tests := []struct {
		name string
		algo Compression
	}{
		{"gzip", CompressionGzip},
		{"zstd", CompressionZstd},
		{"lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			compressed, err := Compress(payload, tt.algo, 0)
			require.NoError(t, err)
			assert.NotEqual(t, payload, compressed)
			assert.Equal(t, tt.algo, DetectCompression(compressed))

			// Auto-detection drives decompression.
			out, err := Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestCompressLevels(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("level sweep "), 4096)
	for _, algo := range []Compression{CompressionGzip, CompressionZstd, CompressionLZ4} {
		for _, level := range []int{0, 1, 5, 9, 100} {
			compressed, err := Compress(payload, algo, level)
			require.NoError(t, err, "%s level %d", algo, level)

			out, err := Decompress(compressed)
			require.NoError(t, err, "%s level %d", algo, level)
			assert.Equal(t, payload, out, "%s level %d", algo, level)
		}
	}
}

func TestCompressNoneIsPassthrough(t *testing.T) {
	t.Parallel()

	payload := []byte("untouched")
	out, err := Compress(payload, CompressionNone, 0)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestCompressXZUnsupported(t *testing.T) {
	t.Parallel()

	_, err := Compress([]byte("x"), CompressionXZ, 0)
	require.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestDecompressPassthroughForRawArchive(t *testing.T) {
	t.Parallel()

	// An uncompressed archive flows through Decompress unchanged, so
	// readers need not know whether compression was applied.
	buf, err := New().MarshalBinary()
	require.NoError(t, err)

	out, err := Decompress(buf)
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestDetectCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want Compression
	}{
		{"gzip frame", []byte{0x1f, 0x8b, 0x08, 0x00}, CompressionGzip},
		{"zstd frame", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, CompressionZstd},
		{"lz4 frame", []byte{0x04, 0x22, 0x4d, 0x18, 0x00}, CompressionLZ4},
		{"xz frame", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, CompressionXZ},
		{"dsap archive", []byte("DSAP\x01\x00\x00\x00"), CompressionNone},
		{"empty", nil, CompressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCompression(tt.data))
		})
	}
}

func TestCompressionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "gzip", CompressionGzip.String())
	assert.Equal(t, "zstd", CompressionZstd.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "xz", CompressionXZ.String())
	assert.Equal(t, "unknown", Compression(42).String())
}
