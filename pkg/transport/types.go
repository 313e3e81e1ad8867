// Package transport provides the character transports the user task
// talks through. Every Transport is non-blocking: Read returns what is
// already buffered and Write queues output.
package transport

// Transport is a polled character channel.
type Transport interface {
	// Any tells whether input is buffered.
	Any() bool
	// Read removes and returns at most n buffered bytes.
	Read(n int) []byte
	// Write queues text for output.
	Write(text string)
	// Pending returns the number of queued writes not yet sent.
	Pending() int
}
