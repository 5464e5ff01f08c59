package compressors

import "io"

// NoCompressionCompressor passes data through unchanged.
type NoCompressionCompressor struct{}

var _ Compressor = NoCompressionCompressor{}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (NoCompressionCompressor) Type() Type { return None }

func (NoCompressionCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// NewWriter returns w unchanged; closing it does not close w.
func (NoCompressionCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{Writer: w}, nil
}
