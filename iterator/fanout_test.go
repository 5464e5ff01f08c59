package iterator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNeighborsIter_Fanout(t *testing.T) {
	it, err := NewGetNeighborsIter(makeNeighborResult(t), testOptions())
	require.NoError(t, err)

	s, err := it.Fanout()
	require.NoError(t, err)
	assert.EqualValues(t, 20, s.Rows)
	assert.EqualValues(t, 40, s.Edges)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 2.0, s.Max)
	assert.Equal(t, 2.0, s.Mean)
	assert.InDelta(t, 2.0, s.P50, 1e-9)
	assert.InDelta(t, 2.0, s.P99, 1e-9)

	it.Erase()
	it.Erase()
	it.Erase()
	s, err = it.Fanout()
	require.NoError(t, err)
	assert.EqualValues(t, 20, s.Rows, "fully erased rows still count")
	assert.EqualValues(t, 37, s.Edges)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 2.0, s.Max)
	assert.True(t, it.Valid(), "the cursor is rewound")
}

func TestGetNeighborsIter_FanoutNoEdge(t *testing.T) {
	it, err := NewGetNeighborsIter(makeNoEdgeResult(t), testOptions())
	require.NoError(t, err)

	s, err := it.Fanout()
	require.NoError(t, err)
	assert.EqualValues(t, it.NumRows(), s.Rows)
	assert.Zero(t, s.Edges)
	assert.Zero(t, s.Max)
}

func TestGetNeighborsIter_FanoutEmpty(t *testing.T) {
	it, err := NewGetNeighborsIter(nil, testOptions())
	require.NoError(t, err)
	s, err := it.Fanout()
	require.NoError(t, err)
	assert.Equal(t, FanoutSummary{}, s)
}
