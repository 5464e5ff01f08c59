package iterator

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/nexusgraph/core"
)

func makeVertexPropDataSet(t *testing.T) *core.DataSet {
	t.Helper()
	ds := core.NewDataSet(core.KVid, "tag1.prop1", "tag2.prop1", "tag2.prop2", "tag3.prop1", "tag3.prop2")
	for i := 0; i < 10; i++ {
		mustAppend(t, ds,
			core.NewString(strconv.Itoa(i)),
			core.NewInt(11),
			core.EmptyValue,
			core.EmptyValue,
			core.NewInt(31),
			core.NewInt(32),
		)
	}
	return ds
}

func makeEdgePropDataSet(t *testing.T) *core.DataSet {
	t.Helper()
	ds := core.NewDataSet("like._src", "like._type", "like._rank", "like._dst", "like.prop1", "like.prop2", "serve.prop1", "serve.prop2")
	for i := 0; i < 10; i++ {
		mustAppend(t, ds,
			core.NewString(strconv.Itoa(i)),
			core.NewInt(2),
			core.NewInt(0),
			core.NewString(strconv.Itoa(i*2+3)),
			core.NewString("hello"),
			core.NewString("world"),
			core.EmptyValue,
			core.EmptyValue,
		)
	}
	return ds
}

func newProp(t *testing.T, ds *core.DataSet) *PropIter {
	t.Helper()
	it, err := NewPropIter(sharedDataSet(ds), testOptions())
	require.NoError(t, err)
	return it
}

func TestPropIter_VertexProp(t *testing.T) {
	it := newProp(t, makeVertexPropDataSet(t))
	assert.Equal(t, KindProp, it.Kind())
	requireValuesEqual(t, stringValues(0, 10), collect(it.Copy(), column(core.KVid)))

	var expected []core.Value
	for i := 0; i < 10; i++ {
		expected = append(expected, core.NewVertexValue(&core.Vertex{
			Vid: core.NewString(strconv.Itoa(i)),
			Tags: []core.Tag{
				{Name: "tag1", Props: map[string]core.Value{"prop1": core.NewInt(11)}},
				{Name: "tag3", Props: map[string]core.Value{"prop1": core.NewInt(31), "prop2": core.NewInt(32)}},
			},
		}))
	}
	got := collect(it, func(it Iterator) core.Value {
		v, err := it.GetVertex("")
		require.NoError(t, err)
		return v
	})
	requireValuesEqual(t, expected, got)

	requireValuesEqual(t, expected, it.GetVertices().Values)
	assert.True(t, it.Valid(), "GetVertices should rewind")
}

func TestPropIter_DisjointTagGroups(t *testing.T) {
	ds := core.NewDataSet(core.KVid, "A.x", "A.y", "B.x", "B.y")
	mustAppend(t, ds, core.NewInt(1), core.NewInt(10), core.NewString("a"), core.EmptyValue, core.EmptyValue)
	it := newProp(t, ds)

	v, err := it.GetVertex("")
	require.NoError(t, err)
	require.True(t, v.IsVertex())
	tags := v.Vertex().Tags
	require.Len(t, tags, 1)
	assert.Equal(t, "A", tags[0].Name)
	assert.Len(t, tags[0].Props, 2)
}

func TestPropIter_VertexBadVid(t *testing.T) {
	ds := core.NewDataSet(core.KVid, "t.p")
	mustAppend(t, ds, core.NewFloat(1.5), core.NewInt(1))
	it := newProp(t, ds)

	v, err := it.GetVertex("")
	require.NoError(t, err)
	assert.True(t, v.Equal(core.NullBadType))
}

func TestPropIter_EdgeProp(t *testing.T) {
	it := newProp(t, makeEdgePropDataSet(t))
	got := collect(it.Copy(), func(it Iterator) core.Value {
		v, err := it.GetEdgeProp("like", core.KSrc)
		require.NoError(t, err)
		return v
	})
	requireValuesEqual(t, stringValues(0, 10), got)

	var expected []core.Value
	for i := 0; i < 10; i++ {
		expected = append(expected, core.NewEdgeValue(&core.Edge{
			Src:     core.NewString(strconv.Itoa(i)),
			Dst:     core.NewString(strconv.Itoa(i*2 + 3)),
			Type:    2,
			Ranking: 0,
			Name:    "like",
			Props:   map[string]core.Value{"prop1": core.NewString("hello"), "prop2": core.NewString("world")},
		}))
	}
	got = collect(it.Copy(), func(it Iterator) core.Value {
		v, err := it.GetEdge()
		require.NoError(t, err)
		return v
	})
	requireValuesEqual(t, expected, got)
	requireValuesEqual(t, expected, it.GetEdges().Values)
}

func TestPropIter_EdgeBadType(t *testing.T) {
	testCases := []struct {
		name  string
		cells []core.Value
	}{
		{"type not int", []core.Value{core.NewString("1"), core.NewString("x"), core.NewInt(0), core.NewString("2")}},
		{"src not vid", []core.Value{core.NewFloat(1), core.NewInt(1), core.NewInt(0), core.NewString("2")}},
		{"dst not vid", []core.Value{core.NewString("1"), core.NewInt(1), core.NewInt(0), core.NewBool(true)}},
		{"rank not int", []core.Value{core.NewString("1"), core.NewInt(1), core.NewString("r"), core.NewString("2")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ds := core.NewDataSet("e._src", "e._type", "e._rank", "e._dst")
			mustAppend(t, ds, tc.cells...)
			it := newProp(t, ds)

			v, err := it.GetEdge()
			require.NoError(t, err)
			assert.True(t, v.Equal(core.NullBadType))
			assert.Empty(t, it.GetEdges().Values, "bad edges are skipped by GetEdges")
		})
	}
}

func TestPropIter_ReverseEdgesAreFormatted(t *testing.T) {
	ds := core.NewDataSet("e._src", "e._type", "e._rank", "e._dst")
	mustAppend(t, ds, core.NewString("a"), core.NewInt(-3), core.NewInt(1), core.NewString("b"))
	it := newProp(t, ds)

	edges := it.GetEdges()
	require.Len(t, edges.Values, 1)
	e := edges.Values[0].Edge()
	assert.True(t, e.Src.Equal(core.NewString("b")))
	assert.True(t, e.Dst.Equal(core.NewString("a")))
	assert.EqualValues(t, 3, e.Type)
}

func TestPropIter_GetProp(t *testing.T) {
	it := newProp(t, makeVertexPropDataSet(t))

	assert.True(t, it.GetProp("tag1", "prop1").Equal(core.NewInt(11)))
	assert.True(t, it.GetProp("tag2", "prop1").IsEmpty())
	assert.True(t, it.GetProp("nope", "prop1").IsEmpty(), "unknown names read as empty")
	assert.True(t, it.GetProp("tag1", "nope").IsNull(), "unknown props read as null")
	assert.True(t, it.GetProp("*", "prop2").Equal(core.NewInt(32)), "wildcard skips empty cells")
	assert.True(t, it.GetProp("*", "nope").IsEmpty())

	tagProp, err := it.GetTagProp("tag3", "prop1")
	require.NoError(t, err)
	assert.True(t, tagProp.Equal(core.NewInt(31)))

	assert.True(t, it.GetColumn("unknown").IsNull())
}

func TestPropIter_MalformedColumn(t *testing.T) {
	ds := core.NewDataSet(core.KVid, "a.b.c")
	mustAppend(t, ds, core.NewInt(1), core.NewInt(2))

	it, err := NewPropIter(sharedDataSet(ds), testOptions())
	require.Error(t, err)
	assert.True(t, core.IsColumnNameError(err))
	require.NotNil(t, it)
	assert.False(t, it.Valid())
	assert.True(t, it.Empty())
}

func TestPropIter_CopyKeepsIndex(t *testing.T) {
	it := newProp(t, makeVertexPropDataSet(t))
	it.Next()

	cp, ok := it.Copy().(*PropIter)
	require.True(t, ok)
	assert.Equal(t, KindProp, cp.Kind())
	assert.True(t, cp.GetColumn(core.KVid).Equal(core.NewString("0")))
	assert.True(t, cp.GetProp("tag3", "prop2").Equal(core.NewInt(32)))
}
