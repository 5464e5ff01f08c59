package iterator

import "github.com/INLOpen/nexusgraph/core"

// DefaultIter stands for exactly one opaque result, e.g. the outcome of a
// statement that produces no table. It has no columns, props or graph objects.
type DefaultIter struct {
	base
	counter int
}

// NewDefaultIter wraps value. A nil value is replaced by an empty one.
func NewDefaultIter(value *core.Shared, opts Options) *DefaultIter {
	if value == nil {
		value = core.NewShared(core.EmptyValue)
	}
	return &DefaultIter{base: newBase(KindDefault, value, opts)}
}

func (it *DefaultIter) Valid() bool { return it.memoryOK() && it.counter <= 0 }

func (it *DefaultIter) Next() {
	it.numRowsModN++
	it.counter++
}

func (it *DefaultIter) Erase() { it.counter++ }

func (it *DefaultIter) UnstableErase() { it.counter++ }

// EraseRange consumes the single element if the range covers index 0.
func (it *DefaultIter) EraseRange(first, last int) {
	if first <= 0 && last > 0 {
		it.counter++
	}
}

// Select consumes the single element unless the window covers index 0.
func (it *DefaultIter) Select(offset, count int) {
	if offset > 0 || count <= 0 {
		it.counter++
	}
}

func (it *DefaultIter) Sample(count int) {
	if count <= 0 {
		it.counter++
	}
}

func (it *DefaultIter) Clear() { it.counter++ }

func (it *DefaultIter) Copy() Iterator {
	return &DefaultIter{base: newBase(KindDefault, it.acquire(), it.opts)}
}

func (it *DefaultIter) Reset(pos int) {
	it.resetCounters()
	it.counter = pos
}

func (it *DefaultIter) Size() int { return 1 }

func (it *DefaultIter) Empty() bool { return false }

func (it *DefaultIter) Row() (*core.Row, error) { return nil, it.unsupported("Row") }

func (it *DefaultIter) MoveRow() (core.Row, error) { return core.Row{}, it.unsupported("MoveRow") }

// GetColumn has no column to read; it logs the misuse and returns a bad-type null.
func (it *DefaultIter) GetColumn(name string) core.Value {
	it.logger.Error("GetColumn called on default iterator", "column", name)
	return core.NullBadType
}

func (it *DefaultIter) GetColumnByIndex(index int) core.Value {
	it.logger.Error("GetColumnByIndex called on default iterator", "index", index)
	return core.NullBadType
}

func (it *DefaultIter) GetColumnIndex(string) (int, error) {
	return -1, it.unsupported("GetColumnIndex")
}

func (it *DefaultIter) GetTagProp(string, string) (core.Value, error) {
	return core.NullBadType, it.unsupported("GetTagProp")
}

func (it *DefaultIter) GetEdgeProp(string, string) (core.Value, error) {
	return core.NullBadType, it.unsupported("GetEdgeProp")
}

func (it *DefaultIter) GetVertex(string) (core.Value, error) {
	return core.EmptyValue, it.unsupported("GetVertex")
}

func (it *DefaultIter) GetEdge() (core.Value, error) {
	return core.EmptyValue, it.unsupported("GetEdge")
}
