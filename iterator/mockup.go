package iterator

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/INLOpen/nexusgraph/core"
)

// --- Result fixtures shared by the iterator tests ---

// stubGuard is a MemoryGuard whose answer is set by the test.
type stubGuard struct {
	hit   bool
	calls int
}

func (g *stubGuard) HitHighWatermark() bool {
	g.calls++
	return g.hit
}

// testOptions returns Options that never trip the memory guard.
func testOptions() Options {
	return Options{CheckMemory: false, VertexCacheCapacity: 1}
}

func mustAppend(t testing.TB, ds *core.DataSet, values ...core.Value) {
	t.Helper()
	require.NoError(t, ds.Append(core.NewRow(values...)))
}

// makeSequentialDataSet builds rows (i, "i") for i in [0, n) under col1, col2.
func makeSequentialDataSet(t testing.TB, n int) *core.DataSet {
	t.Helper()
	ds := core.NewDataSet("col1", "col2")
	for i := 0; i < n; i++ {
		mustAppend(t, ds, core.NewInt(int64(i)), core.NewString(strconv.Itoa(i)))
	}
	return ds
}

func sharedDataSet(ds *core.DataSet) *core.Shared {
	return core.NewShared(core.NewDataSetValue(ds))
}

func sharedDataSets(dss ...*core.DataSet) *core.Shared {
	list := &core.List{}
	for _, ds := range dss {
		list.Append(core.NewDataSetValue(ds))
	}
	return core.NewShared(core.NewListValue(list))
}

// makeEdgeCell builds the edge list of one row: two edges whose props are
// prop1=0, prop2=1, _dst="2", _type=typ, _rank=j.
func makeEdgeCell(typ int64) core.Value {
	edges := &core.List{}
	for j := int64(0); j < 2; j++ {
		edges.Append(core.NewList(core.NewInt(0), core.NewInt(1), core.NewString("2"), core.NewInt(typ), core.NewInt(j)))
	}
	return core.NewListValue(edges)
}

// makeNeighborDataSet builds rows for vids [from, to), each with one tag and
// two edges of the given signed edge name.
func makeNeighborDataSet(t testing.TB, tag, signedEdge string, typ int64, from, to int) *core.DataSet {
	t.Helper()
	ds := core.NewDataSet(
		core.KVid,
		"_stats",
		"_tag:"+tag+":prop1:prop2",
		"_edge:"+signedEdge+":prop1:prop2:_dst:_type:_rank",
		"_expr",
	)
	for i := from; i < to; i++ {
		mustAppend(t, ds,
			core.NewString(strconv.Itoa(i)),
			core.EmptyValue,
			core.NewList(core.NewInt(0), core.NewInt(1)),
			makeEdgeCell(typ),
			core.EmptyValue,
		)
	}
	return ds
}

// makeNeighborResult is two partitions: vids 0..9 with tag1 and outbound
// edge1, vids 10..19 with tag2 and inbound edge2. It holds 40 edges.
func makeNeighborResult(t testing.TB) *core.Shared {
	t.Helper()
	return sharedDataSets(
		makeNeighborDataSet(t, "tag1", "+edge1", 1, 0, 10),
		makeNeighborDataSet(t, "tag2", "-edge2", -2, 10, 20),
	)
}

// makeNoEdgeResult is two partitions of tag-only rows, vids 0..19.
func makeNoEdgeResult(t testing.TB) *core.Shared {
	t.Helper()
	var dss []*core.DataSet
	for p, tag := range []string{"tag1", "tag2"} {
		ds := core.NewDataSet(core.KVid, "_stats", "_tag:"+tag+":prop1:prop2", "_expr")
		for i := p * 10; i < p*10+10; i++ {
			mustAppend(t, ds,
				core.NewString(strconv.Itoa(i)),
				core.EmptyValue,
				core.NewList(core.NewInt(0), core.NewInt(1)),
				core.EmptyValue,
			)
		}
		dss = append(dss, ds)
	}
	return sharedDataSets(dss...)
}

func stringValues(from, to int) []core.Value {
	out := make([]core.Value, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, core.NewString(strconv.Itoa(i)))
	}
	return out
}

func repeatValue(v core.Value, n int) []core.Value {
	out := make([]core.Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// collect drains it from its current position.
func collect(it Iterator, get func(Iterator) core.Value) []core.Value {
	var out []core.Value
	for ; it.Valid(); it.Next() {
		out = append(out, get(it))
	}
	return out
}

func column(name string) func(Iterator) core.Value {
	return func(it Iterator) core.Value { return it.GetColumn(name) }
}

// requireValuesEqual compares values with core.Value.Equal.
func requireValuesEqual(t testing.TB, expected, actual []core.Value) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.Truef(t, expected[i].Equal(actual[i]), "index %d: expected %s, got %s", i, expected[i], actual[i])
	}
}
