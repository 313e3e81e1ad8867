package transport

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestBuffer(t *testing.T) {
	b := NewBuffer()
	require.False(t, b.Any())
	require.Nil(t, b.Read(2))
	b.Feed("g\r\n")
	require.True(t, b.Any())
	require.Equal(t, []byte("g\r"), b.Read(2))
	require.Equal(t, []byte("\n"), b.Read(8))
	require.False(t, b.Any())

	b.Write("hello ")
	b.Write("world")
	require.Equal(t, "hello world", b.Output())
	require.Equal(t, "hello world", b.TakeOutput())
	require.Empty(t, b.Output())

	require.Zero(t, b.Pending())
	require.Equal(t, 3, b.SetPending(3).Pending())
}

func TestStreamPump(t *testing.T) {
	local, remote := net.Pipe()
	s := NewStream("pipe", local)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	_, err := remote.Write([]byte("k12.5\r"))
	require.NoError(t, err)
	require.Eventually(t, s.Any, time.Second, time.Millisecond)
	var got []byte
	require.Eventually(t, func() bool {
		got = append(got, s.Read(64)...)
		return string(got) == "k12.5\r"
	}, time.Second, time.Millisecond)

	s.Write("Gain set to 12.5\r\n")
	buf := make([]byte, 64)
	n, err := remote.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "Gain set to 12.5\r\n", string(buf[:n]))

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestStreamEOF(t *testing.T) {
	s := NewStream("eof", struct {
		io.Reader
		io.Writer
	}{strings.NewReader("h"), io.Discard})
	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, []byte("h"), s.Read(1))
}

func TestStreamDropsWhenFull(t *testing.T) {
	s := NewStream("idle", nil)
	for n := 0; n < DefaultOutputQueue+3; n++ {
		s.Write("x")
	}
	require.Equal(t, 3, s.Dropped())
}

func TestStreamPending(t *testing.T) {
	s := NewStream("idle", nil)
	require.Zero(t, s.Pending())
	s.Write("a")
	s.Write("b")
	require.Equal(t, 2, s.Pending())
}

// recorder keeps writes and blocks reads until closed.
type recorder struct {
	block  bool
	closed chan struct{}
	lock   sync.Mutex
	out    strings.Builder
}

func newRecorder(block bool) *recorder {
	return &recorder{block: block, closed: make(chan struct{})}
}

func (r *recorder) Read([]byte) (int, error) {
	<-r.closed
	return 0, io.EOF
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.block {
		<-r.closed
		return 0, io.ErrClosedPipe
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.out.Write(p)
}

func (r *recorder) Close() error {
	close(r.closed)
	return nil
}

func (r *recorder) Output() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.out.String()
}

func TestStreamFlushesOnCancel(t *testing.T) {
	rec := newRecorder(false)
	s := NewStream("flush", rec)
	for _, text := range []string{"0.1,2,0.1,3\r\n", "0.2,4,0.2,6\r\n", "END\r\n"} {
		s.Write(text)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, s.Run(ctx))
	require.Equal(t, "0.1,2,0.1,3\r\n0.2,4,0.2,6\r\nEND\r\n", rec.Output())
	require.Zero(t, s.Pending())
}

func TestStreamFlushDeadline(t *testing.T) {
	rec := newRecorder(true)
	s := NewStream("stuck", rec)
	s.DrainTimeout = 10 * time.Millisecond
	s.Write("never sent")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	require.Equal(t, context.Canceled, s.Run(ctx))
	require.Less(t, time.Since(start), time.Second)
}

func TestConsole(t *testing.T) {
	c := NewConsole("")
	server := httptest.NewServer(c.Handler())
	defer server.Close()

	require.False(t, c.Any())
	c.Write("nobody listens")
	require.Zero(t, c.Pending())

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, err := websocket.Dial(url, "", server.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, websocket.Message.Send(conn, "h"))
	require.Eventually(t, c.Any, time.Second, time.Millisecond)
	require.Equal(t, []byte("h"), c.Read(1))

	c.Write("help")
	var msg string
	require.NoError(t, websocket.Message.Receive(conn, &msg))
	require.Equal(t, "help", msg)
}
