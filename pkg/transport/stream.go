package transport

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultOutputQueue is the number of pending writes a Stream holds before
// dropping output.
const DefaultOutputQueue = 256

// DefaultDrainTimeout bounds the flush of queued output on stop.
const DefaultDrainTimeout = 200 * time.Millisecond

// Stream adapts a blocking io.ReadWriter into a Transport. Input is
// collected and output is flushed on goroutines started by Run.
type Stream struct {
	Name         string
	DrainTimeout time.Duration

	rw      io.ReadWriter
	lock    sync.Mutex
	in      []byte
	out     chan []byte
	dropped int
}

// NewStream creates a Stream.
func NewStream(name string, rw io.ReadWriter) *Stream {
	return &Stream{Name: name, DrainTimeout: DefaultDrainTimeout, rw: rw, out: make(chan []byte, DefaultOutputQueue)}
}

// Any implements Transport.
func (s *Stream) Any() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.in) > 0
}

// Read implements Transport.
func (s *Stream) Read(n int) []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	if n > len(s.in) {
		n = len(s.in)
	}
	if n <= 0 {
		return nil
	}
	data := make([]byte, n)
	copy(data, s.in)
	s.in = s.in[n:]
	return data
}

// Write implements Transport. Output is dropped when the queue is full.
func (s *Stream) Write(text string) {
	select {
	case s.out <- []byte(text):
	default:
		s.lock.Lock()
		s.dropped++
		s.lock.Unlock()
	}
}

// Dropped returns the number of writes dropped.
func (s *Stream) Dropped() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.dropped
}

// Pending implements Transport.
func (s *Stream) Pending() int {
	return len(s.out)
}

// Run implements Runnable. It returns when ctx is done or the underlying
// stream fails. Queued output is still flushed after ctx is done. A stream
// implementing io.Closer is closed on return, or DrainTimeout after ctx is
// done if the flush is stuck.
func (s *Stream) Run(ctx context.Context) error {
	var once sync.Once
	closeStream := func() {
		if closer, ok := s.rw.(io.Closer); ok {
			once.Do(func() { closer.Close() })
		}
	}
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
			return
		}
		timer := time.NewTimer(s.DrainTimeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			glog.Warningf("stream %s: %d writes not flushed", s.Name, len(s.out))
			closeStream()
		case <-stop:
		}
	}()
	err := s.pump(ctx)
	close(stop)
	closeStream()
	if ctx.Err() != nil {
		err = ctx.Err()
	} else if errors.Is(err, io.EOF) {
		err = nil
	}
	glog.V(2).Infof("stream %s stopped: %v", s.Name, err)
	return err
}

func (s *Stream) pump(ctx context.Context) error {
	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop()
	}()
	for {
		select {
		case <-ctx.Done():
			return s.drain()
		case err := <-readErr:
			return err
		case data := <-s.out:
			if _, err := s.rw.Write(data); err != nil {
				return err
			}
		}
	}
}

// drain writes out whatever is queued.
func (s *Stream) drain() error {
	for {
		select {
		case data := <-s.out:
			if _, err := s.rw.Write(data); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *Stream) readLoop() error {
	buf := make([]byte, 256)
	for {
		n, err := s.rw.Read(buf)
		if n > 0 {
			s.lock.Lock()
			s.in = append(s.in, buf[:n]...)
			s.lock.Unlock()
		}
		if err != nil {
			return err
		}
	}
}
