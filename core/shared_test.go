package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShared_Holders(t *testing.T) {
	s := NewShared(NewInt(1))
	assert.EqualValues(t, 1, s.Holders())
	assert.True(t, s.Exclusive())

	same := s.Acquire()
	assert.Same(t, s, same)
	assert.EqualValues(t, 2, s.Holders())
	assert.False(t, s.Exclusive())

	s.Release()
	s.Release()
	s.Release()
	assert.EqualValues(t, 0, s.Holders(), "releasing past zero is a no-op")

	var nilShared *Shared
	assert.Nil(t, nilShared.Value())
	assert.NotPanics(t, nilShared.Release)
}

func TestShared_DetachExclusive(t *testing.T) {
	s := NewShared(NewList(NewInt(1)))
	d, cloned := s.Detach()
	assert.False(t, cloned)
	assert.Same(t, s, d)
}

func TestShared_DetachCopiesWhenShared(t *testing.T) {
	s := NewShared(NewList(NewInt(1)))
	other := s.Acquire()

	d, cloned := s.Detach()
	require.True(t, cloned)
	assert.NotSame(t, s, d)
	assert.EqualValues(t, 1, d.Holders())
	assert.EqualValues(t, 1, other.Holders(), "the detaching holder is released")

	d.Value().List().Append(NewInt(2))
	assert.Equal(t, 1, other.Value().List().Len(), "mutating the detached value leaves the original alone")
	assert.Equal(t, 2, d.Value().List().Len())
}
