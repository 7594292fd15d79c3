package upipehelper

import "sync"

// SubList is an ordered collection of subpipes a super pipe owns,
// backing CmdIterateSub/CmdSubGetSuper. It is parameterized over the
// concrete subpipe type so a super pipe's Control implementation gets
// back typed values instead of the bare upipe.Pipe interface.
type SubList[T any] struct {
	mu   sync.Mutex
	subs []T
}

// Add appends sub to the list.
func (s *SubList[T]) Add(sub T) {
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// Remove drops the first occurrence of sub equal under eq.
func (s *SubList[T]) Remove(sub T, eq func(a, b T) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.subs {
		if eq(existing, sub) {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// All returns a snapshot of every subpipe, in add order.
func (s *SubList[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.subs...)
}

// Len reports how many subpipes are currently held.
func (s *SubList[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Next returns the subpipe following prev in iteration order, backing
// CmdIterateSub's "give me the next one after this" protocol. Passing
// the zero value of T as prev returns the first subpipe. ok is false
// once iteration reaches the end.
func (s *SubList[T]) Next(prev T, eq func(a, b T) bool, isZero func(T) bool) (next T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isZero(prev) {
		if len(s.subs) == 0 {
			var zero T
			return zero, false
		}
		return s.subs[0], true
	}
	for i, existing := range s.subs {
		if eq(existing, prev) && i+1 < len(s.subs) {
			return s.subs[i+1], true
		}
	}
	var zero T
	return zero, false
}
