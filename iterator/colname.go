package iterator

import (
	"strings"

	"github.com/INLOpen/nexusgraph/core"
)

// ColumnKind classifies a column of a neighbor-expansion data set.
type ColumnKind int

const (
	ColumnVid ColumnKind = iota
	ColumnStats
	ColumnTag
	ColumnEdge
	ColumnExpr
	ColumnOther
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnVid:
		return "vid"
	case ColumnStats:
		return "stats"
	case ColumnTag:
		return "tag"
	case ColumnEdge:
		return "edge"
	case ColumnExpr:
		return "expr"
	default:
		return "other"
	}
}

// ColumnDescriptor is the parsed form of a column name.
type ColumnDescriptor struct {
	Kind ColumnKind
	// Name is the tag name, or the edge name including its direction sign.
	Name string
	// Props lists the property names in the order of the cell's list.
	Props []string
}

// EdgeName returns the edge name without its direction sign.
func (d ColumnDescriptor) EdgeName() string {
	if d.Kind != ColumnEdge || d.Name == "" {
		return d.Name
	}
	return d.Name[1:]
}

// Reverse reports whether an edge column holds inbound edges.
func (d ColumnDescriptor) Reverse() bool {
	return d.Kind == ColumnEdge && strings.HasPrefix(d.Name, "-")
}

// PropIndex returns the position of prop within the cell's list.
func (d ColumnDescriptor) PropIndex(prop string) (int, bool) {
	for i, p := range d.Props {
		if p == prop {
			return i, true
		}
	}
	return -1, false
}

// ParseColumnDescriptor parses one column name of a neighbor-expansion data
// set. Tag and edge columns have the form "_tag:<name>:<prop>..." and
// "_edge:<+|-><name>:<prop>...".
func ParseColumnDescriptor(col string) (ColumnDescriptor, error) {
	switch {
	case col == core.KVid:
		return ColumnDescriptor{Kind: ColumnVid}, nil
	case strings.HasPrefix(col, core.ColumnPrefixStats):
		return ColumnDescriptor{Kind: ColumnStats}, nil
	case strings.HasPrefix(col, core.ColumnPrefixExpr):
		return ColumnDescriptor{Kind: ColumnExpr}, nil
	case strings.HasPrefix(col, core.ColumnPrefixTag):
		return parsePropColumn(col, ColumnTag)
	case strings.HasPrefix(col, core.ColumnPrefixEdge):
		return parsePropColumn(col, ColumnEdge)
	default:
		return ColumnDescriptor{Kind: ColumnOther}, nil
	}
}

func parsePropColumn(col string, kind ColumnKind) (ColumnDescriptor, error) {
	pieces := strings.Split(col, ":")
	if len(pieces) < 2 {
		return ColumnDescriptor{}, &core.ColumnNameError{Column: col, Message: "bad column name format"}
	}
	name := pieces[1]
	switch kind {
	case ColumnEdge:
		if len(name) < 2 || (name[0] != '+' && name[0] != '-') {
			return ColumnDescriptor{}, &core.ColumnNameError{Column: col, Message: "bad edge name"}
		}
	default:
		if name == "" {
			return ColumnDescriptor{}, &core.ColumnNameError{Column: col, Message: "empty tag name"}
		}
	}
	// "_tag:<name>" alone is a tag without props.
	return ColumnDescriptor{Kind: kind, Name: name, Props: pieces[2:]}, nil
}

// checkColumnNames validates the overall shape of a neighbor-expansion
// column list.
func checkColumnNames(colNames []string) error {
	if len(colNames) < 3 ||
		colNames[0] != core.KVid ||
		!strings.HasPrefix(colNames[1], core.ColumnPrefixStats) ||
		!strings.HasPrefix(colNames[len(colNames)-1], core.ColumnPrefixExpr) {
		return &core.ColumnNameError{Column: strings.Join(colNames, ","), Message: "bad column names"}
	}
	return nil
}
