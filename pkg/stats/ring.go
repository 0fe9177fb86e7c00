package stats

// Ring is a fixed capacity buffer that overwrites its oldest slot.
// Slots start zeroed; there is no tracking of which slots were written.
type Ring[T any] struct {
	data   []T
	cursor int
}

// NewRing creates a ring with size slots.
func NewRing[T any](size int) *Ring[T] {
	if size < 1 {
		size = 1
	}
	return &Ring[T]{
		data: make([]T, size),
	}
}

// Push writes v at the cursor and advances it, wrapping to zero.
func (r *Ring[T]) Push(v T) {
	r.data[r.cursor] = v
	r.cursor++
	if r.cursor >= len(r.data) {
		r.cursor = 0
	}
}

// Cursor returns the slot the next Push writes to.
func (r *Ring[T]) Cursor() int {
	return r.cursor
}

// Len returns the capacity.
func (r *Ring[T]) Len() int {
	return len(r.data)
}

// Get returns the slot at index i in array order.
func (r *Ring[T]) Get(i int) T {
	return r.data[i]
}

// Values copies the slots in array order, index 0 first.
func (r *Ring[T]) Values() []T {
	out := make([]T, len(r.data))
	copy(out, r.data)
	return out
}

// Reset zeroes every slot and rewinds the cursor.
func (r *Ring[T]) Reset() {
	clear(r.data)
	r.cursor = 0
}
