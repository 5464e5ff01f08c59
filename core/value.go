package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueType identifies which variant a Value holds.
type ValueType byte

const (
	ValueTypeEmpty    ValueType = 0x00
	ValueTypeNull     ValueType = 0x01
	ValueTypeBool     ValueType = 0x02
	ValueTypeInt      ValueType = 0x03
	ValueTypeFloat    ValueType = 0x04
	ValueTypeString   ValueType = 0x05
	ValueTypeDate     ValueType = 0x06
	ValueTypeTime     ValueType = 0x07
	ValueTypeDateTime ValueType = 0x08
	ValueTypeVertex   ValueType = 0x09
	ValueTypeEdge     ValueType = 0x0A
	ValueTypePath     ValueType = 0x0B
	ValueTypeList     ValueType = 0x0C
	ValueTypeMap      ValueType = 0x0D
	ValueTypeSet      ValueType = 0x0E
	ValueTypeDataSet  ValueType = 0x0F
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeEmpty:
		return "EMPTY"
	case ValueTypeNull:
		return "NULL"
	case ValueTypeBool:
		return "BOOL"
	case ValueTypeInt:
		return "INT"
	case ValueTypeFloat:
		return "FLOAT"
	case ValueTypeString:
		return "STRING"
	case ValueTypeDate:
		return "DATE"
	case ValueTypeTime:
		return "TIME"
	case ValueTypeDateTime:
		return "DATETIME"
	case ValueTypeVertex:
		return "VERTEX"
	case ValueTypeEdge:
		return "EDGE"
	case ValueTypePath:
		return "PATH"
	case ValueTypeList:
		return "LIST"
	case ValueTypeMap:
		return "MAP"
	case ValueTypeSet:
		return "SET"
	case ValueTypeDataSet:
		return "DATASET"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", byte(t))
	}
}

// NullKind distinguishes the null variants. A plain null is NullKindValue.
type NullKind byte

const (
	NullKindValue NullKind = iota
	NullKindNaN
	NullKindBadData
	NullKindBadType
	NullKindErrOverflow
	NullKindUnknownProp
	NullKindDivByZero
	NullKindOutOfRange
)

func (k NullKind) String() string {
	switch k {
	case NullKindValue:
		return "__NULL__"
	case NullKindNaN:
		return "NaN"
	case NullKindBadData:
		return "BAD_DATA"
	case NullKindBadType:
		return "BAD_TYPE"
	case NullKindErrOverflow:
		return "ERR_OVERFLOW"
	case NullKindUnknownProp:
		return "UNKNOWN_PROP"
	case NullKindDivByZero:
		return "DIV_BY_ZERO"
	case NullKindOutOfRange:
		return "OUT_OF_RANGE"
	default:
		return fmt.Sprintf("NULL(%d)", byte(k))
	}
}

// Value is a tagged union over every type a query result cell can hold.
// The zero Value is Empty, which is distinct from Null.
//
// Container variants (list, set, map, dataset) and graph objects are held by
// pointer, so copying a Value is shallow. Use Clone for an independent copy.
type Value struct {
	valueType ValueType
	data      any
}

var (
	// EmptyValue marks the absence of a value, e.g. an unknown column or prop.
	EmptyValue = Value{}
	// NullValue is the plain null.
	NullValue = Value{valueType: ValueTypeNull, data: NullKindValue}
	// NullBadType is returned for a cell whose type does not match what the
	// reader expected.
	NullBadType = Value{valueType: ValueTypeNull, data: NullKindBadType}
	// NullBadData is returned for malformed data.
	NullBadData = Value{valueType: ValueTypeNull, data: NullKindBadData}
	// NullUnknownProp is returned when a property is not declared.
	NullUnknownProp = Value{valueType: ValueTypeNull, data: NullKindUnknownProp}
)

func NewNull(kind NullKind) Value { return Value{valueType: ValueTypeNull, data: kind} }

func NewBool(b bool) Value { return Value{valueType: ValueTypeBool, data: b} }

func NewInt(i int64) Value { return Value{valueType: ValueTypeInt, data: i} }

func NewFloat(f float64) Value { return Value{valueType: ValueTypeFloat, data: f} }

func NewString(s string) Value { return Value{valueType: ValueTypeString, data: s} }

func NewDate(d Date) Value { return Value{valueType: ValueTypeDate, data: d} }

func NewTime(t Time) Value { return Value{valueType: ValueTypeTime, data: t} }

func NewDateTime(dt DateTime) Value { return Value{valueType: ValueTypeDateTime, data: dt} }

func NewVertexValue(v *Vertex) Value { return Value{valueType: ValueTypeVertex, data: v} }

func NewEdgeValue(e *Edge) Value { return Value{valueType: ValueTypeEdge, data: e} }

func NewPathValue(p *Path) Value { return Value{valueType: ValueTypePath, data: p} }

func NewListValue(l *List) Value { return Value{valueType: ValueTypeList, data: l} }

func NewSetValue(s *Set) Value { return Value{valueType: ValueTypeSet, data: s} }

func NewMapValue(m *Map) Value { return Value{valueType: ValueTypeMap, data: m} }

func NewDataSetValue(ds *DataSet) Value { return Value{valueType: ValueTypeDataSet, data: ds} }

// NewList is a shorthand for a list value built from its elements.
func NewList(values ...Value) Value {
	return NewListValue(&List{Values: values})
}

func (v Value) Type() ValueType { return v.valueType }

func (v Value) IsEmpty() bool    { return v.valueType == ValueTypeEmpty }
func (v Value) IsNull() bool     { return v.valueType == ValueTypeNull }
func (v Value) IsBool() bool     { return v.valueType == ValueTypeBool }
func (v Value) IsInt() bool      { return v.valueType == ValueTypeInt }
func (v Value) IsFloat() bool    { return v.valueType == ValueTypeFloat }
func (v Value) IsString() bool   { return v.valueType == ValueTypeString }
func (v Value) IsVertex() bool   { return v.valueType == ValueTypeVertex }
func (v Value) IsEdge() bool     { return v.valueType == ValueTypeEdge }
func (v Value) IsPath() bool     { return v.valueType == ValueTypePath }
func (v Value) IsList() bool     { return v.valueType == ValueTypeList }
func (v Value) IsSet() bool      { return v.valueType == ValueTypeSet }
func (v Value) IsMap() bool      { return v.valueType == ValueTypeMap }
func (v Value) IsDataSet() bool  { return v.valueType == ValueTypeDataSet }
func (v Value) IsBadNull() bool  { return v.IsNull() && v.data.(NullKind) != NullKindValue }
func (v Value) IsNumeric() bool  { return v.IsInt() || v.IsFloat() }
func (v Value) IsTemporal() bool { return v.valueType >= ValueTypeDate && v.valueType <= ValueTypeDateTime }

// NullKind returns the null variant, if the value is a null.
func (v Value) NullKind() (NullKind, bool) {
	k, ok := v.data.(NullKind)
	return k, ok && v.IsNull()
}

func (v Value) ValueBool() (bool, bool) {
	val, ok := v.data.(bool)
	return val, ok
}

func (v Value) ValueInt64() (int64, bool) {
	val, ok := v.data.(int64)
	return val, ok
}

func (v Value) ValueFloat64() (float64, bool) {
	val, ok := v.data.(float64)
	return val, ok
}

func (v Value) ValueString() (string, bool) {
	val, ok := v.data.(string)
	return val, ok
}

func (v Value) ValueDate() (Date, bool) {
	val, ok := v.data.(Date)
	return val, ok
}

func (v Value) ValueTime() (Time, bool) {
	val, ok := v.data.(Time)
	return val, ok
}

func (v Value) ValueDateTime() (DateTime, bool) {
	val, ok := v.data.(DateTime)
	return val, ok
}

// The pointer accessors return nil when the variant does not match.

func (v Value) List() *List {
	l, _ := v.data.(*List)
	return l
}

func (v Value) Set() *Set {
	s, _ := v.data.(*Set)
	return s
}

func (v Value) Map() *Map {
	m, _ := v.data.(*Map)
	return m
}

func (v Value) DataSet() *DataSet {
	ds, _ := v.data.(*DataSet)
	return ds
}

func (v Value) Vertex() *Vertex {
	vx, _ := v.data.(*Vertex)
	return vx
}

func (v Value) Edge() *Edge {
	e, _ := v.data.(*Edge)
	return e
}

func (v Value) Path() *Path {
	p, _ := v.data.(*Path)
	return p
}

// Equal reports deep structural equality. Nulls are equal when they carry the
// same null kind. Floats compare bitwise-equal for NaN.
func (v Value) Equal(o Value) bool {
	if v.valueType != o.valueType {
		return false
	}
	switch v.valueType {
	case ValueTypeEmpty:
		return true
	case ValueTypeFloat:
		a, b := v.data.(float64), o.data.(float64)
		return a == b || (math.IsNaN(a) && math.IsNaN(b))
	case ValueTypeVertex:
		return v.Vertex().Equal(o.Vertex())
	case ValueTypeEdge:
		return v.Edge().Equal(o.Edge())
	case ValueTypePath:
		return v.Path().Equal(o.Path())
	case ValueTypeList:
		return v.List().Equal(o.List())
	case ValueTypeSet:
		return v.Set().Equal(o.Set())
	case ValueTypeMap:
		return v.Map().Equal(o.Map())
	case ValueTypeDataSet:
		return v.DataSet().Equal(o.DataSet())
	default:
		return v.data == o.data
	}
}

// Clone returns a deep copy. Scalars are returned as is.
func (v Value) Clone() Value {
	switch v.valueType {
	case ValueTypeVertex:
		return NewVertexValue(v.Vertex().Clone())
	case ValueTypeEdge:
		return NewEdgeValue(v.Edge().Clone())
	case ValueTypePath:
		return NewPathValue(v.Path().Clone())
	case ValueTypeList:
		return NewListValue(v.List().Clone())
	case ValueTypeSet:
		return NewSetValue(v.Set().Clone())
	case ValueTypeMap:
		return NewMapValue(v.Map().Clone())
	case ValueTypeDataSet:
		return NewDataSetValue(v.DataSet().Clone())
	default:
		return v
	}
}

func (v Value) String() string {
	switch v.valueType {
	case ValueTypeEmpty:
		return "__EMPTY__"
	case ValueTypeNull:
		return v.data.(NullKind).String()
	case ValueTypeBool:
		return strconv.FormatBool(v.data.(bool))
	case ValueTypeInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case ValueTypeFloat:
		return strconv.FormatFloat(v.data.(float64), 'g', -1, 64)
	case ValueTypeString:
		return strconv.Quote(v.data.(string))
	default:
		if s, ok := v.data.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%v", v.data)
	}
}

// List is an ordered sequence of values.
type List struct {
	Values []Value
}

func (l *List) Len() int { return len(l.Values) }

func (l *List) Append(v Value) { l.Values = append(l.Values, v) }

// Clear drops every element but keeps the list itself.
func (l *List) Clear() { l.Values = l.Values[:0] }

func (l *List) Equal(o *List) bool {
	if l == nil || o == nil {
		return l == o
	}
	return valuesEqual(l.Values, o.Values)
}

func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	return &List{Values: cloneValues(l.Values)}
}

func (l *List) String() string { return "[" + joinValues(l.Values) + "]" }

// Set is an unordered collection of distinct values. Membership is decided by
// Equal, so insertion is linear in the set size.
type Set struct {
	Values []Value
}

// Add inserts v unless an equal value is present. It returns false for duplicates.
func (s *Set) Add(v Value) bool {
	for _, e := range s.Values {
		if e.Equal(v) {
			return false
		}
	}
	s.Values = append(s.Values, v)
	return true
}

func (s *Set) Contains(v Value) bool {
	for _, e := range s.Values {
		if e.Equal(v) {
			return true
		}
	}
	return false
}

func (s *Set) Equal(o *Set) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.Values) != len(o.Values) {
		return false
	}
	for _, v := range s.Values {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	return &Set{Values: cloneValues(s.Values)}
}

func (s *Set) String() string { return "{" + joinValues(s.Values) + "}" }

// Map is a string-keyed map of values.
type Map struct {
	KVs map[string]Value
}

func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	return propsEqual(m.KVs, o.KVs)
}

func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	return &Map{KVs: cloneProps(m.KVs)}
}

func (m *Map) String() string { return "{" + formatProps(m.KVs) + "}" }

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneValues(values []Value) []Value {
	if values == nil {
		return nil
	}
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = v.Clone()
	}
	return out
}

func propsEqual(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !va.Equal(vb) {
			return false
		}
	}
	return true
}

func cloneProps(props map[string]Value) map[string]Value {
	if props == nil {
		return nil
	}
	out := make(map[string]Value, len(props))
	for k, v := range props {
		out[k] = v.Clone()
	}
	return out
}

func joinValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

func formatProps(props map[string]Value) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + props[k].String()
	}
	return strings.Join(parts, ",")
}
