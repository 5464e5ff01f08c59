package compressors

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// XZCompressor trades speed for ratio; it suits archived captures.
type XZCompressor struct{}

var _ Compressor = XZCompressor{}

func (XZCompressor) Type() Type { return XZ }

func (XZCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("xz reader error: %w", err)
	}
	return io.NopCloser(xr), nil
}

func (XZCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("xz writer error: %w", err)
	}
	return xw, nil
}
