package compressors

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// maxDecoderMemory caps what a single zstd stream may allocate while decoding.
const maxDecoderMemory = 512 << 20

// ZstdCompressor uses zstd streams.
type ZstdCompressor struct {
	level zstd.EncoderLevel
}

var _ Compressor = (*ZstdCompressor)(nil)

func NewZstdCompressor() *ZstdCompressor {
	return &ZstdCompressor{level: zstd.SpeedDefault}
}

// NewZstdCompressorLevel returns a compressor encoding at the given level.
func NewZstdCompressorLevel(level zstd.EncoderLevel) *ZstdCompressor {
	return &ZstdCompressor{level: level}
}

func (c *ZstdCompressor) Type() Type { return Zstd }

func (c *ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(maxDecoderMemory))
	if err != nil {
		return nil, fmt.Errorf("zstd decoder error: %w", err)
	}
	return dec.IOReadCloser(), nil
}

func (c *ZstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder error: %w", err)
	}
	return enc, nil
}
