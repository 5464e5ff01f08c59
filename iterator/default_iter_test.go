package iterator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/nexusgraph/core"
)

func TestDefaultIter(t *testing.T) {
	constant := core.NewInt(1)
	it := NewDefaultIter(core.NewShared(constant), testOptions())
	defer it.Close()

	assert.Equal(t, KindDefault, it.Kind())
	assert.Equal(t, 1, it.Size())
	assert.False(t, it.Empty())

	visited := 0
	for ; it.Valid(); it.Next() {
		assert.True(t, it.Value().Equal(constant))
		visited++
	}
	assert.Equal(t, 1, visited)

	it.Reset(0)
	assert.True(t, it.Valid(), "Reset should rewind the single element")
}

func TestDefaultIter_NilValue(t *testing.T) {
	it := NewDefaultIter(nil, testOptions())
	require.NotNil(t, it.Value())
	assert.True(t, it.Value().IsEmpty())
}

func TestDefaultIter_Consumers(t *testing.T) {
	testCases := []struct {
		name  string
		apply func(*DefaultIter)
		valid bool
	}{
		{"erase", func(it *DefaultIter) { it.Erase() }, false},
		{"unstable erase", func(it *DefaultIter) { it.UnstableErase() }, false},
		{"clear", func(it *DefaultIter) { it.Clear() }, false},
		{"erase range covering element", func(it *DefaultIter) { it.EraseRange(0, 1) }, false},
		{"erase range after element", func(it *DefaultIter) { it.EraseRange(1, 3) }, true},
		{"select keeping element", func(it *DefaultIter) { it.Select(0, 1) }, true},
		{"select with offset", func(it *DefaultIter) { it.Select(1, 1) }, false},
		{"sample one", func(it *DefaultIter) { it.Sample(1) }, true},
		{"sample none", func(it *DefaultIter) { it.Sample(0) }, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			it := NewDefaultIter(core.NewShared(core.NewInt(1)), testOptions())
			tc.apply(it)
			assert.Equal(t, tc.valid, it.Valid())
		})
	}
}

func TestDefaultIter_UnsupportedAccessors(t *testing.T) {
	it := NewDefaultIter(core.NewShared(core.NewInt(1)), testOptions())

	_, err := it.Row()
	assert.True(t, core.IsUnsupportedOperation(err))
	_, err = it.MoveRow()
	assert.True(t, core.IsUnsupportedOperation(err))
	_, err = it.GetColumnIndex("a")
	assert.True(t, core.IsUnsupportedOperation(err))
	_, err = it.GetTagProp("t", "p")
	assert.True(t, core.IsUnsupportedOperation(err))
	_, err = it.GetEdgeProp("e", "p")
	assert.True(t, core.IsUnsupportedOperation(err))

	v, err := it.GetVertex("")
	assert.True(t, core.IsUnsupportedOperation(err))
	assert.True(t, v.IsEmpty())
	v, err = it.GetEdge()
	assert.True(t, core.IsUnsupportedOperation(err))
	assert.True(t, v.IsEmpty())

	assert.True(t, it.GetColumn("a").Equal(core.NullBadType))
	assert.True(t, it.GetColumnByIndex(0).Equal(core.NullBadType))
}

func TestDefaultIter_CopyIsIndependent(t *testing.T) {
	it := NewDefaultIter(core.NewShared(core.NewInt(1)), testOptions())
	it.Next()
	require.False(t, it.Valid())

	cp := it.Copy()
	assert.Equal(t, KindDefault, cp.Kind())
	assert.True(t, cp.Valid(), "copy should start at the beginning")
	assert.True(t, cp.Value().Equal(core.NewInt(1)))
}
