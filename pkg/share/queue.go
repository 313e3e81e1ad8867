package share

import (
	"fmt"

	fx "github.com/robotalks/romi.go/pkg/framework"
)

// Queue is a fixed-capacity FIFO handing samples from a producing task
// to a draining task. It refuses operations which would lose or invent data.
type Queue[T any] struct {
	name  string
	buf   []T
	head  int
	size  int
	overs int
}

// NewQueue creates a Queue holding at most capacity items.
func NewQueue[T any](name string, capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, fx.Misconfigured("queue "+name,
			fmt.Sprintf("capacity must be positive, got %d", capacity))
	}
	return &Queue[T]{name: name, buf: make([]T, capacity)}, nil
}

// MustNewQueue is NewQueue panicking on a configuration error.
func MustNewQueue[T any](name string, capacity int) *Queue[T] {
	q, err := NewQueue[T](name, capacity)
	if err != nil {
		panic(err)
	}
	return q
}

// Name returns the name given at wiring time.
func (q *Queue[T]) Name() string {
	return q.name
}

// Put appends v to the tail.
func (q *Queue[T]) Put(v T) error {
	if q.size == len(q.buf) {
		q.overs++
		return ErrOverflow
	}
	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
	return nil
}

// Get removes and returns the head.
func (q *Queue[T]) Get() (v T, err error) {
	if q.size == 0 {
		return v, ErrUnderflow
	}
	var zero T
	v, q.buf[q.head] = q.buf[q.head], zero
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, nil
}

// Peek returns the head without removing it.
func (q *Queue[T]) Peek() (v T, err error) {
	if q.size == 0 {
		return v, ErrUnderflow
	}
	return q.buf[q.head], nil
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return q.size }

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int { return len(q.buf) }

// Full indicates the next Put will fail.
func (q *Queue[T]) Full() bool { return q.size == len(q.buf) }

// Empty indicates the next Get will fail.
func (q *Queue[T]) Empty() bool { return q.size == 0 }

// Overflows returns how many Put calls were refused.
func (q *Queue[T]) Overflows() int { return q.overs }

// Clear drops all items, starting a new collection batch.
func (q *Queue[T]) Clear() {
	var zero T
	for i := range q.buf {
		q.buf[i] = zero
	}
	q.head, q.size = 0, 0
}

// String implements fmt.Stringer for diagnostics.
func (q *Queue[T]) String() string {
	return fmt.Sprintf("%d/%d", q.size, len(q.buf))
}
