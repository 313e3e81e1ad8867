package transport

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/romi.go/pkg/framework"
)

// Console is a Transport served over websocket. The most recently
// connected client owns the console; output written while no client is
// connected is discarded.
type Console struct {
	Addr string
	Path string

	lock    sync.Mutex
	current *Stream
}

// NewConsole creates a Console listening on addr.
func NewConsole(addr string) *Console {
	return &Console{Addr: addr, Path: "/console"}
}

func (c *Console) stream() *Stream {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.current
}

// Any implements Transport.
func (c *Console) Any() bool {
	if s := c.stream(); s != nil {
		return s.Any()
	}
	return false
}

// Read implements Transport.
func (c *Console) Read(n int) []byte {
	if s := c.stream(); s != nil {
		return s.Read(n)
	}
	return nil
}

// Write implements Transport.
func (c *Console) Write(text string) {
	if s := c.stream(); s != nil {
		s.Write(text)
	}
}

// Pending implements Transport.
func (c *Console) Pending() int {
	if s := c.stream(); s != nil {
		return s.Pending()
	}
	return 0
}

// Handler serves a console session on each websocket connection.
func (c *Console) Handler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.TextFrame
		s := NewStream(conn.Request().RemoteAddr, conn)
		c.lock.Lock()
		prev := c.current
		c.current = s
		c.lock.Unlock()
		if prev != nil {
			glog.Infof("console %s replaced by %s", prev.Name, s.Name)
		}
		err := s.Run(conn.Request().Context())
		glog.V(2).Infof("console %s closed: %v", s.Name, err)
		c.lock.Lock()
		if c.current == s {
			c.current = nil
		}
		c.lock.Unlock()
	})
}

// Run implements Runnable.
func (c *Console) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(c.Path, c.Handler())
	server := &http.Server{Addr: c.Addr, Handler: mux}
	glog.Infof("console listening on %s%s", c.Addr, c.Path)
	return fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
}

// DialConsole connects to a Console at url, e.g. ws://host:8080/console.
func DialConsole(url string) (*Stream, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.TextFrame
	return NewStream(url, conn), nil
}
