// Package compressors provides the stream codecs used to read and write
// captured query results.
package compressors

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Type identifies a compression algorithm.
type Type byte

const (
	None   Type = 0
	Snappy Type = 1
	LZ4    Type = 2
	Zstd   Type = 3
	XZ     Type = 4
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	case XZ:
		return "xz"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// Compressor wraps streams with one compression algorithm. Writers must be
// closed to flush the final frame.
type Compressor interface {
	Type() Type
	NewReader(r io.Reader) (io.ReadCloser, error)
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// New returns the compressor for t.
func New(t Type) (Compressor, error) {
	switch t {
	case None:
		return NoCompressionCompressor{}, nil
	case Snappy:
		return SnappyCompressor{}, nil
	case LZ4:
		return LZ4Compressor{}, nil
	case Zstd:
		return NewZstdCompressor(), nil
	case XZ:
		return XZCompressor{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}

// Parse maps a compression name as used in configuration onto a Type.
func Parse(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	case "xz":
		return XZ, nil
	default:
		return None, fmt.Errorf("unknown compression: %q", name)
	}
}

// ForPath picks the compression from a file extension: .sz/.snappy, .lz4,
// .zst/.zstd or .xz. Anything else is read and written as is.
func ForPath(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz", ".snappy":
		return Snappy
	case ".lz4":
		return LZ4
	case ".zst", ".zstd":
		return Zstd
	case ".xz":
		return XZ
	default:
		return None
	}
}
