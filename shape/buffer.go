package shape

// Buffer is a read-only array shared between shapes. Copies of a Buffer alias the same storage,
// so a vertex buffer can back many meshes at once.
type Buffer[T any] struct {
	data []T
}

// NewBuffer copies data into a new buffer.
func NewBuffer[T any](data []T) Buffer[T] {
	cp := make([]T, len(data))
	copy(cp, data)
	return Buffer[T]{data: cp}
}

// Len returns the number of elements.
func (b Buffer[T]) Len() int {
	return len(b.data)
}

// At returns the i'th element.
func (b Buffer[T]) At(i int) T {
	return b.data[i]
}

// Each calls fn on every element in order.
func (b Buffer[T]) Each(fn func(i int, v T)) {
	for i, v := range b.data {
		fn(i, v)
	}
}

// Aliases reports whether the two buffers share storage.
func (b Buffer[T]) Aliases(other Buffer[T]) bool {
	if len(b.data) == 0 || len(other.data) == 0 {
		return len(b.data) == len(other.data)
	}
	return &b.data[0] == &other.data[0]
}
