package compressors

import (
	"io"

	lz4 "github.com/pierrec/lz4/v4"
)

// LZ4Compressor uses the LZ4 frame format.
type LZ4Compressor struct{}

var _ Compressor = LZ4Compressor{}

func (LZ4Compressor) Type() Type { return LZ4 }

func (LZ4Compressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func (LZ4Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}
