package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/INLOpen/nexusgraph/core"
	"github.com/INLOpen/nexusgraph/iterator"
)

type dumpMode string

const (
	modeRows     dumpMode = "rows"
	modeVertices dumpMode = "vertices"
	modeEdges    dumpMode = "edges"
)

type dumpOptions struct {
	kind   iterator.Kind
	mode   dumpMode
	window *selectWindow
	sample int
	// pretty prints each element over several indented lines.
	pretty bool
}

type selectWindow struct {
	offset, count int
}

func parseKind(s string) (iterator.Kind, error) {
	switch strings.ToLower(s) {
	case "getneighbors":
		return iterator.KindGetNeighbors, nil
	case "sequential":
		return iterator.KindSequential, nil
	case "prop":
		return iterator.KindProp, nil
	default:
		return 0, fmt.Errorf("unsupported iterator kind: %q", s)
	}
}

func parseMode(s string) (dumpMode, error) {
	switch m := dumpMode(strings.ToLower(s)); m {
	case modeRows, modeVertices, modeEdges:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported dump mode: %q", s)
	}
}

// parseSelect parses "offset,count". An empty string means no window.
func parseSelect(s string) (*selectWindow, error) {
	if s == "" {
		return nil, nil
	}
	offStr, countStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("select must be offset,count: %q", s)
	}
	offset, err := strconv.Atoi(strings.TrimSpace(offStr))
	if err != nil {
		return nil, fmt.Errorf("invalid select offset: %w", err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil {
		return nil, fmt.Errorf("invalid select count: %w", err)
	}
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("select offset and count must not be negative: %q", s)
	}
	return &selectWindow{offset: offset, count: count}, nil
}

// resultValue shapes the fixture the way each iterator expects it: a list of
// data sets for neighbor expansion, a single data set otherwise.
func resultValue(kind iterator.Kind, datasets []*core.DataSet) (core.Value, error) {
	if kind == iterator.KindGetNeighbors {
		list := &core.List{Values: make([]core.Value, 0, len(datasets))}
		for _, ds := range datasets {
			list.Append(core.NewDataSetValue(ds))
		}
		return core.NewListValue(list), nil
	}
	if len(datasets) == 0 {
		return core.Value{}, errors.New("fixture has no data set")
	}
	return core.NewDataSetValue(datasets[0]), nil
}

// dump walks the iterator selected by opts over datasets and writes one
// protojson line per element. It returns the number of lines written.
func dump(ctx context.Context, w io.Writer, datasets []*core.DataSet, opts dumpOptions, itOpts iterator.Options, tracer trace.Tracer) (n int, err error) {
	_, span := tracer.Start(ctx, "resultdump.dump", trace.WithAttributes(
		attribute.String("iterator.kind", opts.kind.String()),
		attribute.String("dump.mode", string(opts.mode)),
		attribute.Int("fixture.datasets", len(datasets)),
	))
	defer func() {
		span.SetAttributes(attribute.Int("dump.lines", n))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger := itOpts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "resultdump")

	value, err := resultValue(opts.kind, datasets)
	if err != nil {
		return 0, err
	}
	it, err := iterator.New(opts.kind, core.NewShared(value), itOpts)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s: %w", opts.kind, err)
	}
	defer it.Close()

	if opts.window != nil {
		it.Select(opts.window.offset, opts.window.count)
	}
	if opts.sample > 0 {
		it.Sample(opts.sample)
	}
	logger.Debug("Dumping result", "iterator", opts.kind.String(), "mode", opts.mode, "size", it.Size())
	if gn, ok := it.(*iterator.GetNeighborsIter); ok {
		fanout, err := gn.Fanout()
		if err != nil {
			logger.Warn("Failed to summarize fanout", "error", err)
		} else {
			logger.Info("Neighbor fanout", "rows", fanout.Rows, "edges", fanout.Edges,
				"min", fanout.Min, "max", fanout.Max, "p50", fanout.P50, "p90", fanout.P90, "p99", fanout.P99)
			span.SetAttributes(attribute.Int64("fanout.edges", int64(fanout.Edges)))
		}
	}

	marshal := protojson.MarshalOptions{Multiline: opts.pretty}
	for ; it.Valid(); it.Next() {
		msg, err := elementMessage(it, opts.mode)
		if err != nil {
			return n, err
		}
		if msg == nil {
			continue
		}
		line, err := marshal.Marshal(msg)
		if err != nil {
			return n, fmt.Errorf("failed to encode element: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return n, fmt.Errorf("failed to write element: %w", err)
		}
		n++
	}
	return n, nil
}

// elementMessage renders the current element. It returns nil for elements
// that do not materialize in the requested mode.
func elementMessage(it iterator.Iterator, mode dumpMode) (proto.Message, error) {
	var v core.Value
	var err error
	switch mode {
	case modeRows:
		row, err := it.Row()
		if err != nil {
			return nil, err
		}
		list, err := core.RowToProto(*row)
		if err != nil {
			return nil, err
		}
		return list, nil
	case modeVertices:
		v, err = it.GetVertex("")
		if err == nil && !v.IsVertex() {
			return nil, nil
		}
	case modeEdges:
		v, err = it.GetEdge()
		if err == nil && !v.IsEdge() {
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("unsupported dump mode: %q", mode)
	}
	if err != nil {
		return nil, err
	}
	pv, err := v.ToProto()
	if err != nil {
		return nil, err
	}
	return pv, nil
}
