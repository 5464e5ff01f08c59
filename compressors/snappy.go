package compressors

import (
	"io"

	"github.com/golang/snappy"
)

// SnappyCompressor uses the snappy framing format, so streams of any length
// can be decoded without knowing their size up front.
type SnappyCompressor struct{}

var _ Compressor = SnappyCompressor{}

func (SnappyCompressor) Type() Type { return Snappy }

func (SnappyCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

func (SnappyCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}
