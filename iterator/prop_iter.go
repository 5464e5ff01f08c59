package iterator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/INLOpen/nexusgraph/core"
)

// propColumn is one "<name>.<prop>" column.
type propColumn struct {
	prop string
	col  int
}

// PropIter is a SequentialIter over property-projected rows whose columns are
// named "<tag or edge>.<prop>", next to bare reserved columns such as _vid.
type PropIter struct {
	SequentialIter
	// propsMap maps a tag or edge name to its columns, ordered by prop name.
	propsMap map[string][]propColumn
	// names holds the keys of propsMap in sorted order.
	names []string
}

// NewPropIter wraps a property-projected data set. A column name with a dot
// must contain exactly one; otherwise the iterator is cleared and the error
// returned.
func NewPropIter(value *core.Shared, opts Options) (*PropIter, error) {
	seq, err := newSequentialIter(KindProp, value, opts)
	it := &PropIter{SequentialIter: *seq, propsMap: map[string][]propColumn{}}
	if err != nil {
		return it, err
	}
	if err := it.buildPropIndex(); err != nil {
		it.logger.Error("Failed to build prop index", "error", err)
		it.propsMap = map[string][]propColumn{}
		it.names = nil
		it.Clear()
		return it, err
	}
	return it, nil
}

func (it *PropIter) buildPropIndex() error {
	for i, colName := range it.ds.ColNames {
		if !strings.Contains(colName, ".") {
			continue
		}
		pieces := strings.Split(colName, ".")
		if len(pieces) != 2 {
			return &core.ColumnNameError{Column: colName, Message: "expected <name>.<prop>"}
		}
		name, prop := pieces[0], pieces[1]
		if _, ok := it.propsMap[name]; !ok {
			it.names = append(it.names, name)
		}
		it.propsMap[name] = append(it.propsMap[name], propColumn{prop: prop, col: i})
	}
	slices.Sort(it.names)
	for _, cols := range it.propsMap {
		slices.SortFunc(cols, func(a, b propColumn) int { return strings.Compare(a.prop, b.prop) })
	}
	return nil
}

func (it *PropIter) Copy() Iterator {
	return &PropIter{
		SequentialIter: it.copySequential(),
		propsMap:       it.propsMap,
		names:          it.names,
	}
}

func (it *PropIter) findProp(name, prop string) (int, bool) {
	for _, pc := range it.propsMap[name] {
		if pc.prop == prop {
			return pc.col, true
		}
	}
	return -1, false
}

// GetProp returns the cell of "<name>.<prop>". Name "*" returns the first
// non-empty cell of prop across all names.
func (it *PropIter) GetProp(name, prop string) core.Value {
	if !it.inRange() {
		return core.NullValue
	}
	row := &it.ds.Rows[it.pos]
	if name == "*" {
		for _, n := range it.names {
			col, ok := it.findProp(n, prop)
			if !ok {
				continue
			}
			if v := columnByIndex(row, col); !v.IsEmpty() {
				return v
			}
		}
		return core.EmptyValue
	}
	if _, ok := it.propsMap[name]; !ok {
		return core.EmptyValue
	}
	col, ok := it.findProp(name, prop)
	if !ok {
		it.logger.Debug("No prop found", "name", name, "prop", prop)
		return core.NullValue
	}
	return columnByIndex(row, col)
}

func (it *PropIter) GetTagProp(tag, prop string) (core.Value, error) {
	return it.GetProp(tag, prop), nil
}

func (it *PropIter) GetEdgeProp(edge, prop string) (core.Value, error) {
	return it.GetProp(edge, prop), nil
}

// present reports whether every column of the group is non-empty in row,
// which is how a projected row says the tag or edge exists.
func present(row *core.Row, cols []propColumn) bool {
	for _, pc := range cols {
		if columnByIndex(row, pc.col).IsEmpty() {
			return false
		}
	}
	return true
}

// GetVertex builds a vertex from the _vid column and every tag group that is
// fully present in the current row.
func (it *PropIter) GetVertex(string) (core.Value, error) {
	if !it.inRange() {
		return core.NullValue, nil
	}
	vid := it.GetColumn(core.KVid)
	if !core.IsValidVid(vid) {
		return core.NullBadType, nil
	}
	row := &it.ds.Rows[it.pos]
	vertex := &core.Vertex{Vid: vid}
	for _, name := range it.names {
		cols := it.propsMap[name]
		if !present(row, cols) {
			continue
		}
		tag := core.Tag{Name: name, Props: make(map[string]core.Value, len(cols))}
		for _, pc := range cols {
			if pc.prop == core.KTag {
				continue
			}
			tag.Props[pc.prop] = columnByIndex(row, pc.col)
		}
		vertex.Tags = append(vertex.Tags, tag)
	}
	return core.NewVertexValue(vertex), nil
}

// GetEdge builds an edge from the first edge group fully present in the
// current row. Key columns of the wrong type yield a bad-type null.
func (it *PropIter) GetEdge() (core.Value, error) {
	if !it.inRange() {
		return core.NullValue, nil
	}
	row := &it.ds.Rows[it.pos]
	for _, name := range it.names {
		cols := it.propsMap[name]
		if !present(row, cols) {
			continue
		}
		edge := &core.Edge{Name: name}

		typ, ok := it.GetProp(name, core.KType).ValueInt64()
		if !ok {
			return core.NullBadType, nil
		}
		edge.Type = typ

		src := it.GetProp(name, core.KSrc)
		if !core.IsValidVid(src) {
			return core.NullBadType, nil
		}
		edge.Src = src

		dst := it.GetProp(name, core.KDst)
		if !core.IsValidVid(dst) {
			return core.NullBadType, nil
		}
		edge.Dst = dst

		rank, ok := it.GetProp(name, core.KRank).ValueInt64()
		if !ok {
			return core.NullBadType, nil
		}
		edge.Ranking = rank

		edge.Props = make(map[string]core.Value, len(cols))
		for _, pc := range cols {
			if core.IsReservedEdgeProp(pc.prop) {
				continue
			}
			edge.Props[pc.prop] = columnByIndex(row, pc.col)
		}
		return core.NewEdgeValue(edge), nil
	}
	return core.NullValue, nil
}

// GetVertices materializes the vertex of every row, then rewinds.
func (it *PropIter) GetVertices() *core.List {
	vertices := &core.List{Values: make([]core.Value, 0, it.Size())}
	for it.Reset(0); it.inRange(); it.Next() {
		v, _ := it.GetVertex("")
		vertices.Append(v)
	}
	it.Reset(0)
	return vertices
}

// GetEdges materializes the edge of every row in canonical direction, then
// rewinds. Rows without a well-formed edge are skipped.
func (it *PropIter) GetEdges() *core.List {
	edges := &core.List{Values: make([]core.Value, 0, it.Size())}
	for it.Reset(0); it.inRange(); it.Next() {
		e, _ := it.GetEdge()
		if !e.IsEdge() {
			it.logger.Debug("Skipping row without edge", "row", it.pos, "value", e.String())
			continue
		}
		e.Edge().Format()
		edges.Append(e)
	}
	it.Reset(0)
	return edges
}

func (it *PropIter) String() string {
	return fmt.Sprintf("%s(%d rows, groups %v)", it.kind, it.Size(), it.names)
}
