package critical

import "sync"

// Section is a scoped exclusive-access region.
// The zero value is ready to use. A Section must not be copied after first use.
type Section struct {
	mu sync.Mutex
}

// Lock enters the section.
func (s *Section) Lock() {
	s.mu.Lock()
}

// Unlock leaves the section.
func (s *Section) Unlock() {
	s.mu.Unlock()
}

// Enter enters the section and returns the func to leave it, so
// callers can write
//
//	defer s.Enter()()
func (s *Section) Enter() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Do runs fn inside the section. The section is released even if fn panics.
func (s *Section) Do(fn func()) {
	defer s.Enter()()
	fn()
}

// Value is a variable shared with an asynchronous producer.
type Value[T any] struct {
	sec Section
	val T
}

// Load reads the value.
func (v *Value[T]) Load() T {
	defer v.sec.Enter()()
	return v.val
}

// Store replaces the value.
func (v *Value[T]) Store(val T) {
	defer v.sec.Enter()()
	v.val = val
}

// Swap replaces the value and returns the previous one.
func (v *Value[T]) Swap(val T) (old T) {
	defer v.sec.Enter()()
	old, v.val = v.val, val
	return
}

// Update applies fn to the value in place and returns the new value.
func (v *Value[T]) Update(fn func(*T)) T {
	defer v.sec.Enter()()
	fn(&v.val)
	return v.val
}
