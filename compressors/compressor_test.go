package compressors

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, c Compressor, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := c.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := c.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestCompressors_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"short":      []byte("datasets: []\n"),
		"repetitive": bytes.Repeat([]byte("- [\"a\", __EMPTY__, [1, 2]]\n"), 4096),
	}
	for _, typ := range []Type{None, Snappy, LZ4, Zstd, XZ} {
		c, err := New(typ)
		require.NoError(t, err)
		assert.Equal(t, typ, c.Type())
		for name, data := range inputs {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				assert.Equal(t, data, roundTrip(t, c, data))
			})
		}
	}
}

func TestCompressors_Shrink(t *testing.T) {
	data := bytes.Repeat([]byte("_edge:+like:likeness:_dst:_type:_rank\n"), 1000)
	for _, typ := range []Type{Snappy, LZ4, Zstd, XZ} {
		c, err := New(typ)
		require.NoError(t, err)
		var buf bytes.Buffer
		w, err := c.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.Less(t, buf.Len(), len(data)/4, typ.String())
	}
}

func TestZstdCompressorLevel(t *testing.T) {
	c := NewZstdCompressorLevel(zstd.SpeedBestCompression)
	data := bytes.Repeat([]byte("abc"), 100)
	assert.Equal(t, data, roundTrip(t, c, data))
}

func TestNoCompression_WriterDoesNotCloseTarget(t *testing.T) {
	var buf bytes.Buffer
	w, err := NoCompressionCompressor{}.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "x", buf.String())
}

func TestForPathAndParse(t *testing.T) {
	testCases := []struct {
		path string
		want Type
	}{
		{"result.yaml", None},
		{"result.yaml.sz", Snappy},
		{"result.SNAPPY", Snappy},
		{"result.yaml.lz4", LZ4},
		{"result.yaml.zst", Zstd},
		{"result.yaml.xz", XZ},
		{"dir.zst/result", None},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ForPath(tc.path), tc.path)
	}

	for _, typ := range []Type{None, Snappy, LZ4, Zstd, XZ} {
		got, err := Parse(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := Parse("gzip")
	assert.Error(t, err)
	_, err = New(Type(9))
	assert.Error(t, err)
	assert.Equal(t, "unknown(9)", Type(9).String())
}
