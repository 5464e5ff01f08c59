package iterator

import (
	"expvar"
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/INLOpen/nexusgraph/algorithm"
	"github.com/INLOpen/nexusgraph/cache"
	"github.com/INLOpen/nexusgraph/core"
)

var (
	vertexCacheHits   = expvar.NewInt("iterator_vertex_cache_hits")
	vertexCacheMisses = expvar.NewInt("iterator_vertex_cache_misses")
)

// propColumnIndex is a parsed tag or edge column and its position.
type propColumnIndex struct {
	col  int
	desc ColumnDescriptor
}

// dataSetIndex is the read-only schema of one neighbor-expansion data set.
// Copies of an iterator share the maps; only ds is re-pointed on detach.
type dataSetIndex struct {
	ds *core.DataSet
	// listPos is the position of ds in the backing list.
	listPos    int
	colIndices map[string]int
	tagProps   map[string]propColumnIndex
	tagNames   []string
	// edgeProps is keyed by the signed edge name, e.g. "+follow".
	edgeProps map[string]propColumnIndex
	// descs holds the parsed descriptor of every column.
	descs []ColumnDescriptor
	// Edge columns occupy [firstEdgeCol, colUpperBound).
	firstEdgeCol  int
	colUpperBound int
}

// GetNeighborsIter walks the result of a neighbor expansion: a list of data
// sets, one per storage partition, each row holding a start vertex, its tag
// props and its adjacent edges. Every adjacent edge is one element. When no
// data set carries edge columns each row is one element instead.
//
// Erasure is logical: erased elements are recorded in a per-iterator bit set
// and skipped; the backing lists are left untouched.
type GetNeighborsIter struct {
	base
	dsIndices []dataSetIndex
	noEdge    bool
	cur       nestedCursor
	erased    *bitset.BitSet
	vertices  *cache.LRUCache[core.Value, core.Value]
}

// NewGetNeighborsIter wraps a list of neighbor-expansion data sets. Empty
// data sets are skipped. On a structural error the iterator is cleared and the
// error returned.
func NewGetNeighborsIter(value *core.Shared, opts Options) (*GetNeighborsIter, error) {
	it := &GetNeighborsIter{
		base:   newBase(KindGetNeighbors, value, opts),
		erased: bitset.New(0),
	}
	it.vertices = newVertexCache(it.opts.VertexCacheCapacity)
	if value == nil {
		it.value = core.NewShared(core.NewListValue(&core.List{}))
		it.cur.state = exhausted
		return it, nil
	}
	if err := it.processList(); err != nil {
		it.logger.Error("Failed to build neighbor index", "error", err)
		it.Clear()
		return it, err
	}
	it.Reset(0)
	return it, nil
}

func newVertexCache(capacity int) *cache.LRUCache[core.Value, core.Value] {
	c := cache.NewLRUCache[core.Value, core.Value](capacity, nil)
	c.SetMetrics(vertexCacheHits, vertexCacheMisses)
	return c
}

func (it *GetNeighborsIter) processList() error {
	v := it.value.Value()
	list := v.List()
	if list == nil {
		return fmt.Errorf("value type is not list, type: %s: %w", v.Type(), core.ErrNotList)
	}
	hasEdge := false
	for i, val := range list.Values {
		ds := val.DataSet()
		if ds == nil {
			return fmt.Errorf("list item %d is %s: %w", i, val.Type(), core.ErrNotDataSet)
		}
		if ds.Size() == 0 {
			continue
		}
		idx, err := buildIndex(ds, i)
		if err != nil {
			return err
		}
		if idx.firstEdgeCol < idx.colUpperBound {
			hasEdge = true
		}
		it.dsIndices = append(it.dsIndices, idx)
	}
	it.noEdge = !hasEdge
	return nil
}

func buildIndex(ds *core.DataSet, listPos int) (dataSetIndex, error) {
	if err := checkColumnNames(ds.ColNames); err != nil {
		return dataSetIndex{}, err
	}
	idx := dataSetIndex{
		ds:            ds,
		listPos:       listPos,
		colIndices:    make(map[string]int, len(ds.ColNames)),
		descs:         make([]ColumnDescriptor, len(ds.ColNames)),
		tagProps:      map[string]propColumnIndex{},
		edgeProps:     map[string]propColumnIndex{},
		firstEdgeCol:  -1,
		colUpperBound: len(ds.ColNames) - 1,
	}
	for i, name := range ds.ColNames {
		idx.colIndices[name] = i
		desc, err := ParseColumnDescriptor(name)
		if err != nil {
			return dataSetIndex{}, err
		}
		idx.descs[i] = desc
		switch desc.Kind {
		case ColumnTag:
			idx.tagProps[desc.Name] = propColumnIndex{col: i, desc: desc}
			idx.tagNames = append(idx.tagNames, desc.Name)
		case ColumnEdge:
			idx.edgeProps[desc.Name] = propColumnIndex{col: i, desc: desc}
			if idx.firstEdgeCol < 0 {
				idx.firstEdgeCol = i
			}
		}
	}
	if idx.firstEdgeCol < 0 {
		idx.firstEdgeCol = idx.colUpperBound
	}
	slices.Sort(idx.tagNames)
	return idx, nil
}

func (it *GetNeighborsIter) numDataSets() int { return len(it.dsIndices) }

func (it *GetNeighborsIter) dataSetAt(i int) (*core.DataSet, int, int) {
	idx := &it.dsIndices[i]
	return idx.ds, idx.firstEdgeCol, idx.colUpperBound
}

func (it *GetNeighborsIter) positioned() bool { return it.cur.positioned(it.noEdge) }

func (it *GetNeighborsIter) Valid() bool { return it.memoryOK() && it.positioned() }

// step moves to the next live element.
func (it *GetNeighborsIter) step() {
	for {
		it.cur.advance(it, it.noEdge)
		if !it.positioned() || !it.erased.Test(uint(it.cur.bit)) {
			return
		}
		it.logger.Debug("Skipping erased element", "bit", it.cur.bit)
	}
}

func (it *GetNeighborsIter) Next() {
	if !it.positioned() {
		return
	}
	it.numRowsModN++
	it.step()
}

// Erase marks the current element erased and moves on.
func (it *GetNeighborsIter) Erase() {
	if !it.positioned() {
		return
	}
	it.erased.Set(uint(it.cur.bit))
	it.Next()
}

// UnstableErase is Erase; logical erasure has no cheaper unordered form.
func (it *GetNeighborsIter) UnstableErase() { it.Erase() }

// EraseRange erases the live elements with logical index in [first, last),
// then rewinds.
func (it *GetNeighborsIter) EraseRange(first, last int) {
	if first < 0 {
		first = 0
	}
	if first >= last {
		return
	}
	it.Reset(0)
	for i := 0; i < last && it.positioned(); i++ {
		if i >= first {
			it.Erase()
		} else {
			it.Next()
		}
	}
	it.Reset(0)
}

// Select keeps the live elements with logical index in [offset, offset+count).
func (it *GetNeighborsIter) Select(offset, count int) {
	if offset < 0 || count < 0 {
		return
	}
	it.Reset(0)
	for i := 0; it.positioned(); i++ {
		if i < offset || i-offset >= count {
			it.Erase()
		} else {
			it.Next()
		}
	}
	it.Reset(0)
}

// rebind re-points the data set indices after a copy-on-write detach. The
// index maps stay shared with other copies.
func (it *GetNeighborsIter) rebind() {
	if !it.detach() {
		return
	}
	list := it.value.Value().List()
	indices := make([]dataSetIndex, len(it.dsIndices))
	for i, idx := range it.dsIndices {
		idx.ds = list.Values[idx.listPos].DataSet()
		indices[i] = idx
	}
	it.dsIndices = indices
	it.vertices.Clear()
}

type sampledEdge struct {
	owner *core.List
	edge  core.Value
}

type sampledRow struct {
	ds  int
	row core.Row
}

// Sample keeps a uniform random subset of at most count live elements. The
// sampled edges are written back into the lists that held them, all other
// edges are dropped physically, and the erased set is cleared.
func (it *GetNeighborsIter) Sample(count int) {
	it.rebind()
	if it.noEdge {
		it.sampleRows(count)
	} else {
		it.sampleEdges(count)
	}
	it.erased.ClearAll()
	it.vertices.Clear()
	it.Reset(0)
}

func (it *GetNeighborsIter) sampleEdges(count int) {
	sampler := algorithm.NewReservoirSampling[sampledEdge](count, it.opts.Rand)
	for it.Reset(0); it.positioned(); it.step() {
		sampler.Sampling(sampledEdge{owner: it.currentEdgeList(), edge: it.currentEdgeValue()})
	}
	it.clearEdges()
	for _, s := range sampler.Samples() {
		s.owner.Append(s.edge)
	}
}

func (it *GetNeighborsIter) sampleRows(count int) {
	sampler := algorithm.NewReservoirSampling[sampledRow](count, it.opts.Rand)
	for it.Reset(0); it.positioned(); it.step() {
		sampler.Sampling(sampledRow{ds: it.cur.ds, row: it.dsIndices[it.cur.ds].ds.Rows[it.cur.row]})
	}
	for i := range it.dsIndices {
		it.dsIndices[i].ds.Rows = nil
	}
	for _, s := range sampler.Samples() {
		ds := it.dsIndices[s.ds].ds
		ds.Rows = append(ds.Rows, s.row)
	}
}

// clearEdges empties every edge list in place.
func (it *GetNeighborsIter) clearEdges() {
	for _, idx := range it.dsIndices {
		for r := range idx.ds.Rows {
			row := &idx.ds.Rows[r]
			for c := idx.firstEdgeCol; c < idx.colUpperBound && c < len(row.Values); c++ {
				if list := row.Values[c].List(); list != nil {
					list.Clear()
				}
			}
		}
	}
}

// Clear drops everything by swapping in an empty list.
func (it *GetNeighborsIter) Clear() {
	it.replaceValue(core.NewListValue(&core.List{}))
	it.dsIndices = nil
	it.erased.ClearAll()
	it.vertices.Clear()
	it.resetCounters()
	it.cur = startCursor()
	it.cur.state = exhausted
}

// Copy returns a cursor over the same result that skips the same erased
// elements. The vertex cache is not shared.
func (it *GetNeighborsIter) Copy() Iterator {
	cp := &GetNeighborsIter{
		base:      newBase(KindGetNeighbors, it.acquire(), it.opts),
		dsIndices: it.dsIndices,
		noEdge:    it.noEdge,
		erased:    it.erased.Clone(),
		vertices:  newVertexCache(it.opts.VertexCacheCapacity),
	}
	cp.Reset(0)
	return cp
}

// Reset rewinds to the first live element and then moves pos elements on.
func (it *GetNeighborsIter) Reset(pos int) {
	it.resetCounters()
	it.cur = startCursor()
	it.step()
	for ; pos > 0 && it.positioned(); pos-- {
		it.step()
	}
}

// Size counts the edges held in the edge lists, or the rows when the result
// has no edges. Erased edges are still counted.
func (it *GetNeighborsIter) Size() int {
	if it.noEdge {
		return it.NumRows()
	}
	count := 0
	for _, idx := range it.dsIndices {
		for r := range idx.ds.Rows {
			row := &idx.ds.Rows[r]
			for _, pc := range idx.edgeProps {
				if pc.col >= len(row.Values) {
					continue
				}
				if list := row.Values[pc.col].List(); list != nil {
					count += list.Len()
				}
			}
		}
	}
	return count
}

func (it *GetNeighborsIter) Empty() bool { return it.Size() == 0 }

// NumRows counts the start vertices across all data sets.
func (it *GetNeighborsIter) NumRows() int {
	n := 0
	for _, idx := range it.dsIndices {
		n += idx.ds.Size()
	}
	return n
}

func (it *GetNeighborsIter) currentIndex() *dataSetIndex { return &it.dsIndices[it.cur.ds] }

func (it *GetNeighborsIter) currentRow() *core.Row {
	return &it.currentIndex().ds.Rows[it.cur.row]
}

func (it *GetNeighborsIter) currentEdgeList() *core.List {
	return it.currentRow().Values[it.cur.col].List()
}

func (it *GetNeighborsIter) currentEdgeValue() core.Value {
	return it.currentEdgeList().Values[it.cur.edge]
}

// currentEdgeColumn returns the descriptor of the column holding the current
// edge.
func (it *GetNeighborsIter) currentEdgeColumn() ColumnDescriptor {
	return it.currentIndex().descs[it.cur.col]
}

func (it *GetNeighborsIter) Row() (*core.Row, error) {
	if !it.positioned() {
		return nil, ErrNotPositioned
	}
	return it.currentRow(), nil
}

func (it *GetNeighborsIter) MoveRow() (core.Row, error) {
	return core.Row{}, it.unsupported("MoveRow")
}

// GetColumn returns an empty value for columns the current data set lacks.
func (it *GetNeighborsIter) GetColumn(name string) core.Value {
	if !it.positioned() {
		return core.NullValue
	}
	idx, ok := it.currentIndex().colIndices[name]
	if !ok {
		return core.EmptyValue
	}
	return columnByIndex(it.currentRow(), idx)
}

func (it *GetNeighborsIter) GetColumnByIndex(index int) core.Value {
	if !it.positioned() {
		return core.NullValue
	}
	return columnByIndex(it.currentRow(), index)
}

// GetColumnIndex looks name up in the current data set, or in the first one
// once the cursor is exhausted.
func (it *GetNeighborsIter) GetColumnIndex(name string) (int, error) {
	if len(it.dsIndices) == 0 {
		return -1, fmt.Errorf("column '%s': %w", name, core.ErrNoSuchColumn)
	}
	idx := &it.dsIndices[0]
	if it.positioned() {
		idx = it.currentIndex()
	}
	i, ok := idx.colIndices[name]
	if !ok {
		return -1, fmt.Errorf("column '%s': %w", name, core.ErrNoSuchColumn)
	}
	return i, nil
}

// tagPropAt reads one prop of a tag column.
func tagPropAt(row *core.Row, pc propColumnIndex, prop string) (core.Value, bool) {
	pos, ok := pc.desc.PropIndex(prop)
	if !ok {
		return core.EmptyValue, false
	}
	cell := columnByIndex(row, pc.col)
	if cell.IsEmpty() {
		return core.EmptyValue, false
	}
	list := cell.List()
	if list == nil {
		return core.NullBadType, true
	}
	if pos >= list.Len() {
		return core.EmptyValue, false
	}
	return list.Values[pos], true
}

// GetTagProp reads a tag prop of the current start vertex. Tag "*" returns
// the first non-empty value of prop over all tags in name order.
func (it *GetNeighborsIter) GetTagProp(tag, prop string) (core.Value, error) {
	if !it.positioned() {
		return core.NullValue, nil
	}
	idx := it.currentIndex()
	row := it.currentRow()
	if tag == "*" {
		for _, name := range idx.tagNames {
			v, ok := tagPropAt(row, idx.tagProps[name], prop)
			if !ok || v.IsEmpty() {
				continue
			}
			return v, nil
		}
		return core.EmptyValue, nil
	}
	pc, ok := idx.tagProps[tag]
	if !ok {
		return core.EmptyValue, nil
	}
	v, _ := tagPropAt(row, pc, prop)
	return v, nil
}

// GetEdgeProp reads a prop of the current edge. Edge "*" matches the current
// edge whatever its name; any other name that is not the current edge's
// yields an empty value.
func (it *GetNeighborsIter) GetEdgeProp(edge, prop string) (core.Value, error) {
	if !it.positioned() {
		return core.NullValue, nil
	}
	if it.noEdge {
		return core.EmptyValue, nil
	}
	desc := it.currentEdgeColumn()
	if edge != "*" && desc.EdgeName() != edge {
		it.logger.Debug("Edge prop requested for another edge", "current", desc.EdgeName(), "wanted", edge)
		return core.EmptyValue, nil
	}
	pos, ok := desc.PropIndex(prop)
	if !ok {
		it.logger.Debug("No edge prop found", "edge", desc.EdgeName(), "prop", prop)
		return core.EmptyValue, nil
	}
	props := it.currentEdgeValue().List()
	if pos >= props.Len() {
		return core.EmptyValue, nil
	}
	return props.Values[pos], nil
}

// GetVertex materializes the start vertex of the current row. Consecutive
// calls for the same vertex id are served from the vertex cache.
func (it *GetNeighborsIter) GetVertex(string) (core.Value, error) {
	if !it.positioned() {
		return core.NullValue, nil
	}
	return it.vertexAt(it.currentIndex(), it.currentRow()), nil
}

func (it *GetNeighborsIter) vertexAt(idx *dataSetIndex, row *core.Row) core.Value {
	vid := columnByIndex(row, 0)
	cacheable := core.IsValidVid(vid)
	if cacheable {
		if v, ok := it.vertices.Get(vid); ok {
			return v
		}
	}
	vertex := &core.Vertex{Vid: vid}
	for _, name := range idx.tagNames {
		pc := idx.tagProps[name]
		list := columnByIndex(row, pc.col).List()
		if list == nil {
			continue
		}
		tag := core.Tag{Name: name, Props: make(map[string]core.Value, len(pc.desc.Props))}
		for i, prop := range pc.desc.Props {
			if prop == core.KTag || i >= list.Len() {
				continue
			}
			tag.Props[prop] = list.Values[i]
		}
		vertex.Tags = append(vertex.Tags, tag)
	}
	v := core.NewVertexValue(vertex)
	if cacheable {
		it.vertices.Put(vid, v)
	}
	return v
}

// GetEdge materializes the current edge with the start vertex as source. A
// missing or non-integer type or rank defaults to 0; a malformed source or
// destination id yields a bad-type null.
func (it *GetNeighborsIter) GetEdge() (core.Value, error) {
	if !it.positioned() {
		return core.NullValue, nil
	}
	if it.noEdge {
		return core.EmptyValue, nil
	}
	desc := it.currentEdgeColumn()
	name := desc.EdgeName()
	edge := &core.Edge{Name: name}

	typ, _ := it.GetEdgeProp(name, core.KType)
	edge.Type, _ = typ.ValueInt64()

	src := columnByIndex(it.currentRow(), 0)
	if !core.IsValidVid(src) {
		return core.NullBadType, nil
	}
	edge.Src = src

	dst, _ := it.GetEdgeProp(name, core.KDst)
	if !core.IsValidVid(dst) {
		return core.NullBadType, nil
	}
	edge.Dst = dst

	rank, _ := it.GetEdgeProp(name, core.KRank)
	edge.Ranking, _ = rank.ValueInt64()

	props := it.currentEdgeValue().List()
	edge.Props = make(map[string]core.Value, len(desc.Props))
	for i, prop := range desc.Props {
		if core.IsReservedEdgeProp(prop) || i >= props.Len() {
			continue
		}
		edge.Props[prop] = props.Values[i]
	}
	return core.NewEdgeValue(edge), nil
}

// Vids returns the start vertex id of every row, erased or not.
func (it *GetNeighborsIter) Vids() []core.Value {
	vids := make([]core.Value, 0, it.NumRows())
	for _, idx := range it.dsIndices {
		for r := range idx.ds.Rows {
			vids = append(vids, columnByIndex(&idx.ds.Rows[r], 0))
		}
	}
	it.Reset(0)
	return vids
}

// GetVertices materializes the start vertex of every row, erased or not.
func (it *GetNeighborsIter) GetVertices() *core.List {
	vertices := &core.List{Values: make([]core.Value, 0, it.NumRows())}
	for i := range it.dsIndices {
		idx := &it.dsIndices[i]
		for r := range idx.ds.Rows {
			vertices.Append(it.vertexAt(idx, &idx.ds.Rows[r]))
		}
	}
	it.Reset(0)
	return vertices
}

// GetEdges materializes every live edge in canonical direction. Malformed
// edges are skipped. The cursor is rewound afterwards.
func (it *GetNeighborsIter) GetEdges() *core.List {
	edges := &core.List{Values: make([]core.Value, 0, it.Size())}
	for it.Reset(0); it.positioned(); it.step() {
		e, _ := it.GetEdge()
		if !e.IsEdge() {
			continue
		}
		e.Edge().Format()
		edges.Append(e)
	}
	it.Reset(0)
	return edges
}

// NoEdge reports whether elements are rows rather than edges.
func (it *GetNeighborsIter) NoEdge() bool { return it.noEdge }

func (it *GetNeighborsIter) String() string {
	return fmt.Sprintf("%s(%d data sets, %d rows, cursor %s)", it.kind, len(it.dsIndices), it.NumRows(), it.cur.state)
}
