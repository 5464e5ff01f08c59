package core

import (
	"fmt"
	"strings"
)

// Row is a fixed-arity tuple of values. Its arity equals the number of column
// names declared by the owning DataSet.
type Row struct {
	Values []Value
}

// NewRow builds a row from its cells.
func NewRow(values ...Value) Row {
	return Row{Values: values}
}

func (r Row) Len() int { return len(r.Values) }

func (r Row) Equal(o Row) bool { return valuesEqual(r.Values, o.Values) }

func (r Row) Clone() Row { return Row{Values: cloneValues(r.Values)} }

func (r Row) String() string { return "(" + joinValues(r.Values) + ")" }

// DataSet is a named-column, row-oriented table. Column order is significant.
type DataSet struct {
	ColNames []string
	Rows     []Row
}

// NewDataSet creates an empty data set with the given column names.
func NewDataSet(colNames ...string) *DataSet {
	return &DataSet{ColNames: colNames}
}

// Append adds a row. It rejects rows whose arity does not match the column
// count, which keeps the per-row arity invariant.
func (ds *DataSet) Append(row Row) error {
	if len(row.Values) != len(ds.ColNames) {
		return fmt.Errorf("row arity %d does not match %d columns", len(row.Values), len(ds.ColNames))
	}
	ds.Rows = append(ds.Rows, row)
	return nil
}

func (ds *DataSet) Size() int { return len(ds.Rows) }

func (ds *DataSet) Equal(o *DataSet) bool {
	if ds == nil || o == nil {
		return ds == o
	}
	if len(ds.ColNames) != len(o.ColNames) || len(ds.Rows) != len(o.Rows) {
		return false
	}
	for i := range ds.ColNames {
		if ds.ColNames[i] != o.ColNames[i] {
			return false
		}
	}
	for i := range ds.Rows {
		if !ds.Rows[i].Equal(o.Rows[i]) {
			return false
		}
	}
	return true
}

func (ds *DataSet) Clone() *DataSet {
	if ds == nil {
		return nil
	}
	out := &DataSet{
		ColNames: append([]string(nil), ds.ColNames...),
		Rows:     make([]Row, len(ds.Rows)),
	}
	for i, r := range ds.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

func (ds *DataSet) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(ds.ColNames, "|"))
	for _, r := range ds.Rows {
		sb.WriteString("\n")
		sb.WriteString(r.String())
	}
	return sb.String()
}
