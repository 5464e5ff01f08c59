package iterator

import "github.com/INLOpen/nexusgraph/core"

// cursorState is the level a nestedCursor is resolving. A cursor at rest is
// either on an element (atEdge, or atRow when the result has no edges) or
// exhausted; the other states only occur while settling.
type cursorState int

const (
	atDataset cursorState = iota
	atRow
	atColumn
	atEdge
	exhausted
)

func (s cursorState) String() string {
	switch s {
	case atDataset:
		return "AtDataset"
	case atRow:
		return "AtRow"
	case atColumn:
		return "AtColumn"
	case atEdge:
		return "AtEdge"
	default:
		return "Exhausted"
	}
}

// nestedCursor walks dataset -> row -> edge column -> edge. It holds only
// indices, so it stays valid when the backing value is swapped for a clone.
type nestedCursor struct {
	state cursorState
	ds    int
	row   int
	col   int
	edge  int
	// bit is the ordinal of the current element among all structural
	// elements; it addresses the erased set. -1 before the first element.
	bit int
}

// edgeLayout is what the cursor needs to know about a data set.
type edgeLayout interface {
	numDataSets() int
	dataSetAt(i int) (*core.DataSet, int, int)
}

// startCursor returns a cursor before the first element.
func startCursor() nestedCursor {
	return nestedCursor{state: atDataset, bit: -1}
}

// positioned reports whether the cursor rests on an element.
func (c *nestedCursor) positioned(noEdge bool) bool {
	if noEdge {
		return c.state == atRow
	}
	return c.state == atEdge
}

// advance leaves the current element and settles on the next structural one,
// bumping bit when it lands. It is a no-op once exhausted.
func (c *nestedCursor) advance(l edgeLayout, noEdge bool) {
	switch c.state {
	case exhausted:
		return
	case atEdge:
		c.edge++
	case atRow:
		if noEdge {
			c.row++
		}
	}
	c.settle(l, noEdge)
	if c.state != exhausted {
		c.bit++
	}
}

// settle runs transitions until the cursor rests on an element or runs out.
// Non-list cells and non-list edge entries are skipped.
func (c *nestedCursor) settle(l edgeLayout, noEdge bool) {
	for {
		switch c.state {
		case atDataset:
			if c.ds >= l.numDataSets() {
				c.state = exhausted
				continue
			}
			c.row = 0
			c.state = atRow

		case atRow:
			ds, _, _ := l.dataSetAt(c.ds)
			if c.row >= len(ds.Rows) {
				c.ds++
				c.state = atDataset
				continue
			}
			if noEdge {
				return
			}
			_, c.col, _ = l.dataSetAt(c.ds)
			c.state = atColumn

		case atColumn:
			ds, _, upper := l.dataSetAt(c.ds)
			row := &ds.Rows[c.row]
			if c.col >= upper || c.col >= len(row.Values) {
				c.row++
				c.state = atRow
				continue
			}
			if list := row.Values[c.col].List(); list == nil || list.Len() == 0 {
				c.col++
				continue
			}
			c.edge = 0
			c.state = atEdge

		case atEdge:
			ds, _, _ := l.dataSetAt(c.ds)
			list := ds.Rows[c.row].Values[c.col].List()
			if c.edge >= list.Len() {
				c.col++
				c.state = atColumn
				continue
			}
			if !list.Values[c.edge].IsList() {
				c.edge++
				continue
			}
			return

		case exhausted:
			return
		}
	}
}
