package transport

import (
	"io"
	"os"
)

type stdio struct {
	io.Reader
	io.Writer
}

// Stdio creates a Stream over the process standard input and output.
func Stdio() *Stream {
	return NewStream("stdio", stdio{Reader: os.Stdin, Writer: os.Stdout})
}
