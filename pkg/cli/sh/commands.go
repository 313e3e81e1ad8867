package sh

import (
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/romi.go/pkg/telemetry"
)

// DefaultCollectTimeout bounds the wait for a batch to be printed.
const DefaultCollectTimeout = 10 * time.Second

func parseDuration(args []string, n int, def time.Duration) (time.Duration, error) {
	if len(args) <= n {
		return def, nil
	}
	return time.ParseDuration(args[n])
}

func valueCmd(name, alias string, cmd byte) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: []string{alias},
		Help:    "VALUE",
		Func: MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("exactly one value expected"))
				return
			}
			ShellFrom(c).Conn.Session.SendValue(cmd, c.Args[0])
		}),
	}
}

var (
	// SendCmd sends raw command characters.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: MustBeOpen(func(c *ishell.Context) {
			ShellFrom(c).Conn.Session.Send(strings.Join(c.Args, " ") + "\r")
		}),
	}

	// GainCmd sets the proportional gain of both motors.
	GainCmd = valueCmd("gain", "k", 'k')

	// SetpointCmd sets the setpoint of both motors.
	SetpointCmd = valueCmd("setpoint", "sp", 's')

	// CollectCmd runs a batch and saves its samples.
	CollectCmd = ishell.Cmd{
		Name:    "collect",
		Aliases: []string{"c"},
		Help:    "[g|l|r] [TIMEOUT]",
		Func: MustBeOpen(func(c *ishell.Context) {
			side := "g"
			if len(c.Args) > 0 {
				side = c.Args[0]
			}
			switch side {
			case "g", "l", "r":
			default:
				c.Err(fmt.Errorf("unknown side %q", side))
				return
			}
			timeout, err := parseDuration(c.Args, 1, DefaultCollectTimeout)
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			s.Conn.Session.Send(side)
			path, block, err := s.Capture(timeout)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d rows saved to %s (%d skipped)\n", len(block.Rows), path, block.Skipped)
		}),
	}

	// WatchCmd prints telemetry snapshots.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[CONTROLLER-ID|+] [DURATION]",
		Func: func(c *ishell.Context) {
			id := "+"
			if len(c.Args) > 0 {
				id = c.Args[0]
			}
			duration, err := parseDuration(c.Args, 1, 5*time.Second)
			if err != nil {
				c.Err(err)
				return
			}
			link, err := telemetry.NewLinkFromURL(ShellFrom(c).Config.MQTTURL)
			if err != nil {
				c.Err(err)
				return
			}
			if token := link.Connect(); token.Wait() && token.Error() != nil {
				c.Err(token.Error())
				return
			}
			defer link.Close()
			token := link.Subscribe(telemetry.Topic(id), func(topic string, payload []byte) {
				snap, err := telemetry.Decode(payload)
				if err != nil {
					c.Printf("%s: %v\n", topic, err)
					return
				}
				c.Printf("%s: %s\n", topic, snap.String())
			})
			if token.Wait() && token.Error() != nil {
				c.Err(token.Error())
				return
			}
			time.Sleep(duration)
		},
	}
)

func init() {
	AddCmds(
		&SendCmd,
		&GainCmd,
		&SetpointCmd,
		&CollectCmd,
		&WatchCmd,
	)
}
