package collector

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/robotalks/romi.go/pkg/transport"
)

// DefaultPollInterval is how often a Session checks its transport.
const DefaultPollInterval = 10 * time.Millisecond

// Session is the host side of a controller console. Console lines are
// echoed to Output, data blocks are passed to OnBlock instead.
type Session struct {
	Transport    transport.Transport
	Output       io.Writer
	OnBlock      func(*Block, error)
	PollInterval time.Duration

	pending   []byte
	extractor Extractor
}

// NewSession creates a Session.
func NewSession(t transport.Transport, out io.Writer) *Session {
	return &Session{Transport: t, Output: out, PollInterval: DefaultPollInterval}
}

// Send writes text to the controller.
func (s *Session) Send(text string) {
	s.Transport.Write(text)
}

// SendValue answers a value prompt started by cmd (k or s).
func (s *Session) SendValue(cmd byte, value string) {
	s.Send(string(cmd) + strings.TrimSpace(value) + "\r")
}

// Poll consumes buffered input and handles complete lines.
func (s *Session) Poll() {
	for s.Transport.Any() {
		s.pending = append(s.pending, s.Transport.Read(4096)...)
	}
	for {
		n := bytes.IndexByte(s.pending, '\n')
		if n < 0 {
			return
		}
		line := string(s.pending[:n+1])
		s.pending = s.pending[n+1:]
		s.handle(line)
	}
}

func (s *Session) handle(line string) {
	wasInside := s.extractor.Inside()
	b, err := s.extractor.Feed(line)
	if b != nil || err != nil {
		if s.OnBlock != nil {
			s.OnBlock(b, err)
		}
		return
	}
	trimmed := strings.TrimRight(line, "\r\n")
	if wasInside || s.extractor.Inside() || s.Output == nil {
		return
	}
	io.WriteString(s.Output, trimmed+"\n")
}

// Run implements Runnable.
func (s *Session) Run(ctx context.Context) error {
	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Poll()
		}
	}
}
