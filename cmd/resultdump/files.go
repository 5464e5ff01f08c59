package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/INLOpen/nexusgraph/compressors"
	"github.com/INLOpen/nexusgraph/core"
)

// openFixture reads one fixture file, undoing the compression its extension
// names.
func openFixture(path string) ([]*core.DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	c, err := compressors.New(compressors.ForPath(path))
	if err != nil {
		return nil, err
	}
	r, err := c.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return loadFixture(r)
}

// loadFixtures reads every path concurrently and concatenates the data sets
// in path order.
func loadFixtures(ctx context.Context, paths []string) ([]*core.DataSet, error) {
	results := make([][]*core.DataSet, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			datasets, err := openFixture(path)
			if err != nil {
				return fmt.Errorf("fixture %s: %w", path, err)
			}
			results[i] = datasets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*core.DataSet
	for _, datasets := range results {
		out = append(out, datasets...)
	}
	return out, nil
}

type outputFile struct {
	io.WriteCloser
	file *os.File
}

func (o *outputFile) Close() error {
	return errors.Join(o.WriteCloser.Close(), o.file.Close())
}

// createOutput creates path and compresses what is written to it according
// to its extension. Close flushes the compressor and then closes the file.
func createOutput(path string) (io.WriteCloser, error) {
	c, err := compressors.New(compressors.ForPath(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	w, err := c.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &outputFile{WriteCloser: w, file: f}, nil
}
