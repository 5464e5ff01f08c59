package iterator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/INLOpen/nexusgraph/algorithm"
	"github.com/INLOpen/nexusgraph/core"
)

// SequentialIter walks the rows of a single data set in order. Erasure is
// physical: rows are removed from the backing data set.
type SequentialIter struct {
	base
	ds         *core.DataSet
	pos        int
	colIndices map[string]int
}

// NewSequentialIter wraps a data set value. If value does not hold a data
// set the returned iterator is empty and the error says why.
func NewSequentialIter(value *core.Shared, opts Options) (*SequentialIter, error) {
	return newSequentialIter(KindSequential, value, opts)
}

func newSequentialIter(kind Kind, value *core.Shared, opts Options) (*SequentialIter, error) {
	it := &SequentialIter{base: newBase(kind, value, opts)}
	if value == nil || !value.Value().IsDataSet() {
		var err error
		if value == nil {
			err = fmt.Errorf("%s: nil value: %w", kind, core.ErrNotDataSet)
		} else {
			err = fmt.Errorf("%s: got %s: %w", kind, value.Value().Type(), core.ErrNotDataSet)
		}
		it.logger.Error("Failed to build iterator", "error", err)
		it.replaceValue(core.NewDataSetValue(core.NewDataSet()))
		it.ds = it.value.Value().DataSet()
		it.colIndices = map[string]int{}
		return it, err
	}
	it.ds = value.Value().DataSet()
	it.colIndices = make(map[string]int, len(it.ds.ColNames))
	for i, name := range it.ds.ColNames {
		it.colIndices[name] = i
	}
	return it, nil
}

// NewSequentialIterMerge concatenates the rows of several sequential (or
// prop) iterators into a new data set. The inputs are consumed and closed.
// All inputs must share the column layout of the first one; this is not
// checked.
func NewSequentialIterMerge(inputs []Iterator, opts Options) (*SequentialIter, error) {
	if len(inputs) == 0 {
		return nil, errors.New("merge needs at least one input iterator")
	}
	seqs := make([]*SequentialIter, 0, len(inputs))
	for i, in := range inputs {
		seq, err := asSequential(in)
		if err != nil {
			return nil, fmt.Errorf("merge input %d: %w", i, err)
		}
		seqs = append(seqs, seq)
	}

	first := seqs[0]
	ds := &core.DataSet{ColNames: slices.Clone(first.ds.ColNames)}
	for _, seq := range seqs {
		seq.detach()
		rows := seq.value.Value().DataSet().Rows
		ds.Rows = append(ds.Rows, rows...)
		seq.value.Value().DataSet().Rows = nil
	}

	it := &SequentialIter{
		base:       newBase(KindSequential, core.NewShared(core.NewDataSetValue(ds)), opts),
		ds:         ds,
		colIndices: first.colIndices,
	}
	for _, seq := range seqs {
		seq.Close()
	}
	return it, nil
}

// asSequential narrows an iterator to its sequential part.
func asSequential(in Iterator) (*SequentialIter, error) {
	switch in.Kind() {
	case KindSequential:
		return in.(*SequentialIter), nil
	case KindProp:
		return &in.(*PropIter).SequentialIter, nil
	case KindDefault, KindGetNeighbors:
		return nil, &core.UnsupportedOperationError{Kind: in.Kind().String(), Op: "merge"}
	default:
		return nil, fmt.Errorf("unknown iterator kind %d", int(in.Kind()))
	}
}

// ColIndices returns the column name to position index. It is shared between
// copies and must not be modified.
func (it *SequentialIter) ColIndices() map[string]int { return it.colIndices }

func (it *SequentialIter) inRange() bool { return it.pos < len(it.ds.Rows) }

func (it *SequentialIter) Valid() bool { return it.memoryOK() && it.inRange() }

func (it *SequentialIter) Next() {
	if it.inRange() {
		it.numRowsModN++
		it.pos++
	}
}

// rebind re-points the cached data set after a copy-on-write detach.
func (it *SequentialIter) rebind() {
	if it.detach() {
		it.ds = it.value.Value().DataSet()
	}
}

// Erase removes the current row, keeping the order of the rest.
func (it *SequentialIter) Erase() {
	if !it.inRange() {
		return
	}
	it.numRowsModN++
	it.rebind()
	it.ds.Rows = slices.Delete(it.ds.Rows, it.pos, it.pos+1)
}

// UnstableErase moves the last row into the current slot.
func (it *SequentialIter) UnstableErase() {
	if !it.inRange() {
		return
	}
	it.numRowsModN++
	it.rebind()
	last := len(it.ds.Rows) - 1
	it.ds.Rows[it.pos] = it.ds.Rows[last]
	it.ds.Rows[last] = core.Row{}
	it.ds.Rows = it.ds.Rows[:last]
}

func (it *SequentialIter) EraseRange(first, last int) {
	if first < 0 {
		first = 0
	}
	if first >= last || first >= it.Size() {
		return
	}
	if last > it.Size() {
		last = it.Size()
	}
	it.rebind()
	it.ds.Rows = slices.Delete(it.ds.Rows, first, last)
	it.Reset(0)
}

func (it *SequentialIter) Select(offset, count int) {
	size := it.Size()
	switch {
	case offset < 0 || count < 0:
		return
	case size <= offset:
		it.Clear()
	case size-offset > count:
		it.EraseRange(0, offset)
		it.EraseRange(count, size-offset)
	default:
		it.EraseRange(0, offset)
	}
}

func (it *SequentialIter) Sample(count int) {
	sampler := algorithm.NewReservoirSampling[core.Row](count, it.opts.Rand)
	it.rebind()
	for _, row := range it.ds.Rows {
		sampler.Sampling(row)
	}
	it.ds.Rows = sampler.Samples()
	it.Reset(0)
}

// Clear drops the rows by swapping in a fresh data set with the same columns.
func (it *SequentialIter) Clear() {
	it.replaceValue(core.NewDataSetValue(core.NewDataSet(slices.Clone(it.ds.ColNames)...)))
	it.ds = it.value.Value().DataSet()
	it.Reset(0)
}

func (it *SequentialIter) copySequential() SequentialIter {
	return SequentialIter{
		base:       newBase(it.kind, it.acquire(), it.opts),
		ds:         it.ds,
		colIndices: it.colIndices,
	}
}

func (it *SequentialIter) Copy() Iterator {
	cp := it.copySequential()
	return &cp
}

func (it *SequentialIter) Reset(pos int) {
	it.resetCounters()
	if pos < 0 {
		pos = 0
	}
	if pos > len(it.ds.Rows) {
		pos = len(it.ds.Rows)
	}
	it.pos = pos
}

func (it *SequentialIter) Size() int { return len(it.ds.Rows) }

func (it *SequentialIter) Empty() bool { return it.Size() == 0 }

// Row returns the current row. It is only valid until the next mutation.
func (it *SequentialIter) Row() (*core.Row, error) {
	if !it.inRange() {
		return nil, ErrNotPositioned
	}
	return &it.ds.Rows[it.pos], nil
}

// MoveRow hands the current row to the caller and leaves the slot empty.
func (it *SequentialIter) MoveRow() (core.Row, error) {
	if !it.inRange() {
		return core.Row{}, ErrNotPositioned
	}
	it.rebind()
	row := it.ds.Rows[it.pos]
	it.ds.Rows[it.pos] = core.Row{}
	return row, nil
}

// GetColumn returns a null for unknown columns.
func (it *SequentialIter) GetColumn(name string) core.Value {
	if !it.inRange() {
		return core.NullValue
	}
	idx, ok := it.colIndices[name]
	if !ok {
		return core.NullValue
	}
	return columnByIndex(&it.ds.Rows[it.pos], idx)
}

func (it *SequentialIter) GetColumnByIndex(index int) core.Value {
	if !it.inRange() {
		return core.NullValue
	}
	return columnByIndex(&it.ds.Rows[it.pos], index)
}

func (it *SequentialIter) GetColumnIndex(name string) (int, error) {
	idx, ok := it.colIndices[name]
	if !ok {
		return -1, fmt.Errorf("column '%s': %w", name, core.ErrNoSuchColumn)
	}
	return idx, nil
}

// GetTagProp reads the projected "<tag>.<prop>" column.
func (it *SequentialIter) GetTagProp(tag, prop string) (core.Value, error) {
	return it.dottedColumn(tag, prop), nil
}

// GetEdgeProp reads the projected "<edge>.<prop>" column.
func (it *SequentialIter) GetEdgeProp(edge, prop string) (core.Value, error) {
	return it.dottedColumn(edge, prop), nil
}

func (it *SequentialIter) dottedColumn(name, prop string) core.Value {
	if !it.inRange() {
		return core.NullValue
	}
	idx, ok := it.colIndices[name+"."+prop]
	if !ok {
		return core.EmptyValue
	}
	return columnByIndex(&it.ds.Rows[it.pos], idx)
}

// GetVertex returns the already materialized vertex stored in column name,
// or in DefaultVertexColumn when name is empty.
func (it *SequentialIter) GetVertex(name string) (core.Value, error) {
	if name == "" {
		name = DefaultVertexColumn
	}
	return it.GetColumn(name), nil
}

// GetEdge returns the already materialized edge stored in DefaultEdgeColumn.
func (it *SequentialIter) GetEdge() (core.Value, error) {
	return it.GetColumn(DefaultEdgeColumn), nil
}
