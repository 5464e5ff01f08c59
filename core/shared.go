package core

import "sync/atomic"

// Shared is a handle on a result value that several iterators may read at
// once. It counts live holders so that a holder about to mutate the value can
// tell whether it is the only one.
//
// Shared does no locking. Every holder must be driven from one goroutine;
// mutation from two goroutines is undefined.
type Shared struct {
	value   *Value
	holders *atomic.Int64
}

// NewShared wraps v in a handle with a single holder.
func NewShared(v Value) *Shared {
	h := &atomic.Int64{}
	h.Store(1)
	return &Shared{value: &v, holders: h}
}

// Value returns the backing value. Callers must not mutate it unless
// Exclusive reports true.
func (s *Shared) Value() *Value {
	if s == nil {
		return nil
	}
	return s.value
}

// Acquire registers one more holder and returns the same handle.
func (s *Shared) Acquire() *Shared {
	s.holders.Add(1)
	return s
}

// Release drops one holder. Releasing more often than acquiring is a no-op.
func (s *Shared) Release() {
	if s == nil {
		return
	}
	for {
		n := s.holders.Load()
		if n <= 0 || s.holders.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// Holders returns the number of live holders.
func (s *Shared) Holders() int64 {
	if s == nil {
		return 0
	}
	return s.holders.Load()
}

// Exclusive reports whether the caller is the only live holder.
func (s *Shared) Exclusive() bool {
	return s.Holders() <= 1
}

// Detach returns a handle the caller may mutate. When the handle is already
// exclusive it is returned unchanged; otherwise the value is deep-copied into
// a fresh handle and the caller's hold on s is released.
func (s *Shared) Detach() (*Shared, bool) {
	if s.Exclusive() {
		return s, false
	}
	clone := NewShared(s.value.Clone())
	s.Release()
	return clone, true
}
