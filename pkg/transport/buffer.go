package transport

import (
	"strings"
	"sync"
)

// Buffer is an in-memory Transport. Input is fed by the caller and
// output is accumulated for inspection.
type Buffer struct {
	lock    sync.Mutex
	in      []byte
	out     strings.Builder
	pending int
}

// NewBuffer creates a Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Feed appends input.
func (b *Buffer) Feed(text string) *Buffer {
	b.lock.Lock()
	b.in = append(b.in, text...)
	b.lock.Unlock()
	return b
}

// Any implements Transport.
func (b *Buffer) Any() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.in) > 0
}

// Read implements Transport.
func (b *Buffer) Read(n int) []byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	if n > len(b.in) {
		n = len(b.in)
	}
	if n <= 0 {
		return nil
	}
	data := append([]byte(nil), b.in[:n]...)
	b.in = b.in[n:]
	return data
}

// Write implements Transport.
func (b *Buffer) Write(text string) {
	b.lock.Lock()
	b.out.WriteString(text)
	b.lock.Unlock()
}

// Pending implements Transport. Writes to a Buffer are never queued, so
// this is whatever was last set with SetPending.
func (b *Buffer) Pending() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.pending
}

// SetPending sets the backlog reported by Pending.
func (b *Buffer) SetPending(n int) *Buffer {
	b.lock.Lock()
	b.pending = n
	b.lock.Unlock()
	return b
}

// Output returns everything written so far.
func (b *Buffer) Output() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.out.String()
}

// TakeOutput returns and clears the written output.
func (b *Buffer) TakeOutput() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	s := b.out.String()
	b.out.Reset()
	return s
}
