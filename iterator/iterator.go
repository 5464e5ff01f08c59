package iterator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/INLOpen/nexusgraph/config"
	"github.com/INLOpen/nexusgraph/core"
	"github.com/INLOpen/nexusgraph/sys"
)

// Kind enumerates the result shapes. The set is closed; every switch over it
// must handle all four.
type Kind int

const (
	KindDefault Kind = iota
	KindGetNeighbors
	KindSequential
	KindProp
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default iterator"
	case KindGetNeighbors:
		return "get neighbors iterator"
	case KindSequential:
		return "sequential iterator"
	case KindProp:
		return "prop iterator"
	default:
		return fmt.Sprintf("unknown iterator(%d)", int(k))
	}
}

// Column names under which already materialized vertices and edges are stored
// in tabular results.
const (
	DefaultVertexColumn = "VERTEX"
	DefaultEdgeColumn   = "EDGE"
)

// ErrNotPositioned is returned by row accessors when the cursor is past the end.
var ErrNotPositioned = errors.New("iterator is not positioned at an element")

// Iterator walks an in-memory query result and exposes it as rows, vertices
// or edges. Implementations are not safe for concurrent use.
type Iterator interface {
	Kind() Kind

	// Valid reports whether the cursor is on an element. It also turns false
	// once the process crosses its memory high watermark; callers must treat
	// that the same as running out of data.
	Valid() bool
	Next()
	// Erase removes the current element and moves to the next one.
	Erase()
	// UnstableErase is Erase without the order guarantee.
	UnstableErase()
	// EraseRange removes the half-open range [first, last); last is clamped.
	EraseRange(first, last int)
	// Select keeps only [offset, offset+count).
	Select(offset, count int)
	// Sample keeps a uniform random subset of at most count elements and
	// rewinds the cursor.
	Sample(count int)
	// Clear drops every element.
	Clear()
	// Copy returns an independent cursor over the same result, at the start.
	Copy() Iterator
	Reset(pos int)
	Size() int
	Empty() bool

	// Value returns the backing result value.
	Value() *core.Value
	Row() (*core.Row, error)
	MoveRow() (core.Row, error)

	GetColumn(name string) core.Value
	// GetColumnByIndex accepts negative indices counting from the row end.
	GetColumnByIndex(index int) core.Value
	GetColumnIndex(name string) (int, error)
	GetTagProp(tag, prop string) (core.Value, error)
	GetEdgeProp(edge, prop string) (core.Value, error)
	GetVertex(name string) (core.Value, error)
	GetEdge() (core.Value, error)

	// Close releases the hold on the backing value.
	Close() error
}

var (
	_ Iterator = (*DefaultIter)(nil)
	_ Iterator = (*SequentialIter)(nil)
	_ Iterator = (*PropIter)(nil)
	_ Iterator = (*GetNeighborsIter)(nil)
)

// Options configures an iterator. The zero value is usable.
type Options struct {
	Logger *slog.Logger
	// CheckMemory enables the memory high-watermark check in Valid.
	CheckMemory bool
	// MemoryGuard defaults to sys.GlobalMemoryGuard.
	MemoryGuard sys.MemoryGuard
	// NumRowsToCheckMemory is how many advanced elements pass between two
	// guard checks.
	NumRowsToCheckMemory int
	// VertexCacheCapacity bounds the materialized-vertex cache of
	// GetNeighborsIter. Zero disables it.
	VertexCacheCapacity int
	// Rand drives Sample. Defaults to a time-seeded source.
	Rand *rand.Rand
}

// OptionsFromConfig maps the iterator configuration onto Options.
func OptionsFromConfig(cfg config.IteratorConfig, logger *slog.Logger) Options {
	return Options{
		Logger:               logger,
		CheckMemory:          cfg.CheckMemory,
		MemoryGuard:          sys.GlobalMemoryGuard(),
		NumRowsToCheckMemory: cfg.NumRowsToCheckMemory,
		VertexCacheCapacity:  cfg.VertexCacheCapacity,
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.MemoryGuard == nil {
		o.MemoryGuard = sys.GlobalMemoryGuard()
	}
	if o.NumRowsToCheckMemory <= 0 {
		o.NumRowsToCheckMemory = 1
	}
	if o.VertexCacheCapacity < 0 {
		o.VertexCacheCapacity = 0
	}
	return o
}

// New builds the iterator of the given kind over value.
func New(kind Kind, value *core.Shared, opts Options) (Iterator, error) {
	switch kind {
	case KindDefault:
		return NewDefaultIter(value, opts), nil
	case KindGetNeighbors:
		return NewGetNeighborsIter(value, opts)
	case KindSequential:
		return NewSequentialIter(value, opts)
	case KindProp:
		return NewPropIter(value, opts)
	default:
		return nil, fmt.Errorf("unknown iterator kind %d", int(kind))
	}
}

// base carries the state every variant shares: the backing value handle and
// the memory-pressure counter.
type base struct {
	kind   Kind
	value  *core.Shared
	opts   Options
	logger *slog.Logger
	closed bool

	numRowsModN     int
	memoryExhausted bool
}

func newBase(kind Kind, value *core.Shared, opts Options) base {
	opts = opts.withDefaults()
	return base{
		kind:   kind,
		value:  value,
		opts:   opts,
		logger: opts.Logger.With("component", kind.String()),
	}
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Value() *core.Value { return b.value.Value() }

// memoryOK runs the high-watermark check every NumRowsToCheckMemory advanced
// elements. Once tripped it stays tripped until the cursor is reset.
func (b *base) memoryOK() bool {
	if b.memoryExhausted {
		return false
	}
	if !b.opts.CheckMemory {
		return true
	}
	if b.numRowsModN >= b.opts.NumRowsToCheckMemory {
		b.numRowsModN -= b.opts.NumRowsToCheckMemory
		if b.opts.MemoryGuard.HitHighWatermark() {
			b.memoryExhausted = true
			b.logger.Warn("Memory high watermark reached, stopping iteration early")
			return false
		}
	}
	return true
}

func (b *base) resetCounters() {
	b.numRowsModN = 0
	b.memoryExhausted = false
}

// detach makes the backing value exclusive to this iterator before a
// physical mutation. It reports whether the value was copied, in which case
// the caller must re-point any cached references into it.
func (b *base) detach() bool {
	if b.value == nil {
		return false
	}
	v, cloned := b.value.Detach()
	b.value = v
	if cloned {
		b.logger.Debug("Detached shared result value before mutation")
	}
	return cloned
}

// replaceValue swaps in a fresh exclusive value, releasing the current one.
func (b *base) replaceValue(v core.Value) {
	b.value.Release()
	b.value = core.NewShared(v)
}

func (b *base) acquire() *core.Shared {
	if b.value == nil {
		return nil
	}
	return b.value.Acquire()
}

func (b *base) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.value.Release()
	return nil
}

func (b *base) unsupported(op string) error {
	return &core.UnsupportedOperationError{Kind: b.kind.String(), Op: op}
}

// columnByIndex resolves a possibly negative index against a row.
func columnByIndex(row *core.Row, index int) core.Value {
	size := len(row.Values)
	if index >= size || -index > size {
		return core.NullBadType
	}
	if index < 0 {
		index += size
	}
	return row.Values[index]
}
