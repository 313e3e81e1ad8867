package sh

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/romi.go/pkg/collector"
	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/transport"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	AutoOpen    bool

	Shell  *ishell.Shell
	Config *Config
	Conn   *Conn
}

// Conn is an open controller console.
type Conn struct {
	Name    string
	Session *collector.Session
	Runner  *fx.Runner

	blocks chan captured
}

type captured struct {
	block *collector.Block
	err   error
}

const (
	shellKey     = "$shell"
	closedPrompt = "[none] > "
)

// ErrNotOpen is reported by commands requiring a console.
var ErrNotOpen = errors.New("no console open")

var (
	evalOnly bool

	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open console.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(ErrNotOpen)
			return
		}
		fn(c)
	}
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// Open opens a serial port, or a websocket console when port is a URL.
func (s *Shell) Open(port string, baud int) error {
	var (
		stream *transport.Stream
		err    error
	)
	if strings.HasPrefix(port, "ws://") || strings.HasPrefix(port, "wss://") {
		stream, err = transport.DialConsole(port)
	} else {
		stream, err = transport.OpenSerial(port, baud)
	}
	if err != nil {
		return err
	}
	conn := &Conn{
		Name:   port,
		Runner: fx.NewRunner(),
		blocks: make(chan captured, 1),
	}
	conn.Session = collector.NewSession(stream, shellWriter{s.Shell})
	conn.Session.OnBlock = func(b *collector.Block, err error) {
		select {
		case conn.blocks <- captured{b, err}:
		default:
			s.Shell.Printf("data block dropped (%d rows)\n", rowsOf(b))
		}
	}
	s.Close()
	s.Conn = conn
	conn.Runner.Go(fx.NamedRun("stream", stream), fx.NamedRun("session", conn.Session))
	go func() {
		if err := conn.Runner.Wait(); err != nil {
			s.Shell.Printf("console %s closed: %v\n", conn.Name, err)
		}
	}()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", port))
	return nil
}

type shellWriter struct {
	*ishell.Shell
}

func (w shellWriter) Write(p []byte) (int, error) {
	w.Print(string(p))
	return len(p), nil
}

func rowsOf(b *collector.Block) int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// Close closes current console.
func (s *Shell) Close() {
	if s.Conn != nil {
		s.Conn.Runner.Stop()
		s.Conn = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// Capture waits for the next data block and saves it.
func (s *Shell) Capture(timeout time.Duration) (string, *collector.Block, error) {
	if s.Conn == nil {
		return "", nil, ErrNotOpen
	}
	select {
	case c := <-s.Conn.blocks:
		if c.err != nil {
			return "", c.block, c.err
		}
		path, err := collector.Save(s.Config.LogDir, c.block, time.Now())
		return path, c.block, err
	case <-time.After(timeout):
		return "", nil, context.DeadlineExceeded
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoOpen && s.Config.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Port)
		}
		if err := s.Open(s.Config.Port, s.Config.Baud); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Port, err)
		}
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := transport.SerialPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, p := range ports {
				c.Println(p)
			}
		},
	}

	// OpenCmd opens a console.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "PORT|URL [BAUD]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			port, baud := s.Config.Port, s.Config.Baud
			if len(c.Args) > 0 {
				port = c.Args[0]
			}
			if len(c.Args) > 1 {
				if _, err := fmt.Sscan(c.Args[1], &baud); err != nil {
					c.Err(fmt.Errorf("invalid baud rate %q", c.Args[1]))
					return
				}
			}
			if port == "" {
				ports, err := transport.SerialPorts()
				if err != nil {
					c.Err(err)
					return
				}
				switch {
				case len(ports) == 0:
					c.Err(fmt.Errorf("no serial ports found"))
					return
				case len(ports) == 1 || !s.Interactive:
					port = ports[0]
				default:
					port = ports[s.Shell.MultiChoice(ports, "Which one to open?")]
				}
			}
			if err := s.Open(port, baud); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes current console.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).WithAutoOpen(true).Run(flag.Args()...)
}
