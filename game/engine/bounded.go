package engine

import "fmt"

// CapacityError is the panic value raised when a fixed-capacity container
// overflows. Level content is statically sized, so an overflow is a bug.
type CapacityError struct {
	Container string
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: capacity %d exceeded", e.Container, e.Capacity)
}

// Bounded is an append-only list with a fixed capacity.
type Bounded[T any] struct {
	name  string
	items []T
}

// NewBounded allocates a list able to hold capacity elements.
func NewBounded[T any](name string, capacity int) *Bounded[T] {
	return &Bounded[T]{name: name, items: make([]T, 0, capacity)}
}

// Push appends v and panics with *CapacityError when the list is full.
func (b *Bounded[T]) Push(v T) {
	if len(b.items) == cap(b.items) {
		panic(&CapacityError{Container: b.name, Capacity: cap(b.items)})
	}
	b.items = append(b.items, v)
}

// Extend pushes every element of vs.
func (b *Bounded[T]) Extend(vs []T) {
	for _, v := range vs {
		b.Push(v)
	}
}

// Len returns the number of stored elements.
func (b *Bounded[T]) Len() int { return len(b.items) }

// Cap returns the fixed capacity.
func (b *Bounded[T]) Cap() int { return cap(b.items) }

// Items returns the stored elements.
func (b *Bounded[T]) Items() []T { return b.items }
