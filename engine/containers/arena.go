package containers

import "golang.org/x/exp/constraints"

// Handle addresses a value stored in an Arena. Handles are dense, start at
// zero and stay valid for the lifetime of the arena.
type Handle int

const InvalidHandle Handle = -1

// Arena is an append-only store of values addressed by Handle. Handles are
// stable and can be shared between owners and compared for identity.
// Pointers returned by Get are not stable across Add.
type Arena[T any] struct {
	data []T
}

// Create a new Arena with room for capacity values
func NewArena[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capacity),
	}
}

// Add appends a value and returns its handle
func (a *Arena[T]) Add(value T) Handle {
	a.data = append(a.data, value)
	return Handle(len(a.data) - 1)
}

// Get returns a pointer to the value behind h. The pointer is only valid
// until the next Add.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if !a.Valid(h) {
		return nil, false
	}
	return &a.data[h], true
}

func (a *Arena[T]) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(a.data)
}

func (a *Arena[T]) Len() int {
	return len(a.data)
}

// Each calls fn for every value in insertion order.
func (a *Arena[T]) Each(fn func(h Handle, value *T)) {
	for i := range a.data {
		fn(Handle(i), &a.data[i])
	}
}

// InRange reports whether v lies within [low, high].
func InRange[T constraints.Ordered](v, low, high T) bool {
	return v >= low && v <= high
}
