package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_EmptyIsNotNull(t *testing.T) {
	var zero Value
	assert.True(t, zero.IsEmpty())
	assert.False(t, zero.IsNull())
	assert.Equal(t, ValueTypeEmpty, zero.Type())
	assert.True(t, zero.Equal(EmptyValue))
	assert.False(t, EmptyValue.Equal(NullValue))

	assert.True(t, NullBadType.IsNull())
	assert.True(t, NullBadType.IsBadNull())
	assert.False(t, NullValue.IsBadNull())
	assert.False(t, NullBadType.Equal(NullValue), "null kinds are compared")

	kind, ok := NullBadType.NullKind()
	require.True(t, ok)
	assert.Equal(t, NullKindBadType, kind)
	_, ok = NewInt(1).NullKind()
	assert.False(t, ok)
}

func TestValue_Accessors(t *testing.T) {
	i, ok := NewInt(42).ValueInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)
	_, ok = NewString("42").ValueInt64()
	assert.False(t, ok)

	s, ok := NewString("x").ValueString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	f, ok := NewFloat(1.5).ValueFloat64()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	b, ok := NewBool(true).ValueBool()
	assert.True(t, ok)
	assert.True(t, b)

	d, ok := NewDate(Date{Year: 2024, Month: 2, Day: 29}).ValueDate()
	assert.True(t, ok)
	assert.Equal(t, "2024-02-29", d.String())

	assert.Nil(t, NewInt(1).List())
	assert.Nil(t, NewInt(1).DataSet())
	assert.Nil(t, NewInt(1).Vertex())
	assert.NotNil(t, NewList(NewInt(1)).List())

	assert.True(t, NewInt(1).IsNumeric())
	assert.True(t, NewDateTime(DateTime{}).IsTemporal())
	assert.False(t, NewString("a").IsTemporal())
}

func TestValue_Equal(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"ints", NewInt(1), NewInt(1), true},
		{"int vs float", NewInt(1), NewFloat(1), false},
		{"nan", NewFloat(math.NaN()), NewFloat(math.NaN()), true},
		{"nested lists", NewList(NewInt(1), NewList(NewString("a"))), NewList(NewInt(1), NewList(NewString("a"))), true},
		{"list order", NewList(NewInt(1), NewInt(2)), NewList(NewInt(2), NewInt(1)), false},
		{"set order", NewSetValue(&Set{Values: []Value{NewInt(1), NewInt(2)}}), NewSetValue(&Set{Values: []Value{NewInt(2), NewInt(1)}}), true},
		{"maps", NewMapValue(&Map{KVs: map[string]Value{"a": NewInt(1)}}), NewMapValue(&Map{KVs: map[string]Value{"a": NewInt(1)}}), true},
		{
			"vertices",
			NewVertexValue(&Vertex{Vid: NewString("v"), Tags: []Tag{{Name: "t", Props: map[string]Value{"p": NewInt(1)}}}}),
			NewVertexValue(&Vertex{Vid: NewString("v"), Tags: []Tag{{Name: "t", Props: map[string]Value{"p": NewInt(1)}}}}),
			true,
		},
		{
			"edges differ in rank",
			NewEdgeValue(&Edge{Src: NewInt(1), Dst: NewInt(2), Type: 1, Name: "e", Ranking: 0}),
			NewEdgeValue(&Edge{Src: NewInt(1), Dst: NewInt(2), Type: 1, Name: "e", Ranking: 1}),
			false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, tc.a.Equal(tc.b))
			assert.Equal(t, tc.equal, tc.b.Equal(tc.a))
		})
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	inner := &List{Values: []Value{NewInt(1)}}
	ds := NewDataSet("a")
	require.NoError(t, ds.Append(NewRow(NewListValue(inner))))
	orig := NewDataSetValue(ds)

	clone := orig.Clone()
	require.True(t, clone.Equal(orig))

	inner.Append(NewInt(2))
	ds.Rows[0].Values[0].List().Values[0] = NewInt(9)
	assert.False(t, clone.Equal(orig))
	assert.Equal(t, 1, clone.DataSet().Rows[0].Values[0].List().Len())
	assert.True(t, clone.DataSet().Rows[0].Values[0].List().Values[0].Equal(NewInt(1)))
}

func TestList_ClearKeepsIdentity(t *testing.T) {
	l := &List{}
	v := NewListValue(l)
	l.Append(NewInt(1))
	l.Append(NewInt(2))
	l.Clear()
	assert.Equal(t, 0, v.List().Len())
	v.List().Append(NewInt(3))
	assert.Equal(t, 1, l.Len())
}

func TestSet_Add(t *testing.T) {
	s := &Set{}
	assert.True(t, s.Add(NewInt(1)))
	assert.False(t, s.Add(NewInt(1)))
	assert.True(t, s.Add(NewString("1")))
	assert.True(t, s.Contains(NewString("1")))
	assert.Len(t, s.Values, 2)
}

func TestDataSet_AppendChecksArity(t *testing.T) {
	ds := NewDataSet("a", "b")
	require.NoError(t, ds.Append(NewRow(NewInt(1), NewInt(2))))
	assert.Error(t, ds.Append(NewRow(NewInt(1))))
	assert.Equal(t, 1, ds.Size())
}

func TestEdge_Format(t *testing.T) {
	e := &Edge{Src: NewString("a"), Dst: NewString("b"), Type: -3}
	e.Format()
	assert.True(t, e.Src.Equal(NewString("b")))
	assert.True(t, e.Dst.Equal(NewString("a")))
	assert.Equal(t, int64(3), e.Type)

	e.Format()
	assert.True(t, e.Src.Equal(NewString("b")), "format is idempotent on forward edges")
}

func TestIsValidVid(t *testing.T) {
	assert.True(t, IsValidVid(NewInt(1)))
	assert.True(t, IsValidVid(NewString("v")))
	assert.False(t, IsValidVid(NewFloat(1)))
	assert.False(t, IsValidVid(NullValue))
	assert.False(t, IsValidVid(EmptyValue))
}

func TestIsReservedEdgeProp(t *testing.T) {
	for _, p := range []string{KSrc, KDst, KRank, KType} {
		assert.True(t, IsReservedEdgeProp(p), p)
	}
	assert.False(t, IsReservedEdgeProp(KTag))
	assert.False(t, IsReservedEdgeProp("weight"))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "__EMPTY__", EmptyValue.String())
	assert.Equal(t, "BAD_TYPE", NullBadType.String())
	assert.Equal(t, `[1,"a"]`, NewList(NewInt(1), NewString("a")).String())
	assert.Equal(t, "INT", ValueTypeInt.String())
}
