package share

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Value enumerates the types a Cell can hold. Each of them fits in a
// single 64-bit word.
type Value interface {
	bool | int | int32 | int64 | uint8 | uint16 | uint32 | float32 | float64
}

// Cell is a single-slot value shared between tasks. Many tasks may read
// and write the same Cell; the last Put wins.
type Cell[T Value] struct {
	name string
	bits atomic.Uint64
}

// NewCell creates a Cell holding initial until the first Put.
func NewCell[T Value](name string, initial T) *Cell[T] {
	c := &Cell[T]{name: name}
	c.bits.Store(encode(initial))
	return c
}

// Name returns the name given at wiring time.
func (c *Cell[T]) Name() string {
	return c.name
}

// Put stores v.
func (c *Cell[T]) Put(v T) {
	c.bits.Store(encode(v))
}

// Get returns the most recently stored value.
func (c *Cell[T]) Get() T {
	return decode[T](c.bits.Load())
}

// String implements fmt.Stringer for diagnostics.
func (c *Cell[T]) String() string {
	return fmt.Sprintf("%v", c.Get())
}

func encode[T Value](v T) uint64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int:
		return uint64(x)
	case int32:
		return uint64(x)
	case int64:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	}
	panic(fmt.Sprintf("share: unsupported cell type %T", v))
}

func decode[T Value](b uint64) T {
	var v T
	switch p := any(&v).(type) {
	case *bool:
		*p = b != 0
	case *int:
		*p = int(b)
	case *int32:
		*p = int32(b)
	case *int64:
		*p = int64(b)
	case *uint8:
		*p = uint8(b)
	case *uint16:
		*p = uint16(b)
	case *uint32:
		*p = uint32(b)
	case *float32:
		*p = math.Float32frombits(uint32(b))
	case *float64:
		*p = math.Float64frombits(b)
	}
	return v
}
