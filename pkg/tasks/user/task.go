// Package user implements the interactive command task: a single
// character command console over a polled Transport that starts data
// collection batches, streams their samples as CSV and edits tuning
// values.
package user

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/romi.go/pkg/cotask"
	"github.com/robotalks/romi.go/pkg/drivers"
	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/share"
	"github.com/robotalks/romi.go/pkg/transport"
)

// State of the user task.
type State int

// States.
const (
	StateInit State = iota
	StateCmd
	StateCollect
	StateDisplay
	StateSet
	StateCalibrateWhite
	StateCalibrateBlack
	StateFollow
)

var stateNames = map[State]string{
	StateInit:           "INIT",
	StateCmd:            "CMD",
	StateCollect:        "COLLECT",
	StateDisplay:        "DISPLAY",
	StateSet:            "SET",
	StateCalibrateWhite: "CAL_WHITE",
	StateCalibrateBlack: "CAL_BLACK",
	StateFollow:         "LINE_FOLLOW",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// DisplayBacklog is the number of unsent writes at which the display
// state stops emitting rows until the transport catches up.
const DisplayBacklog = 16

// Input characters with special meaning.
const (
	Rubout    = 0x7f
	Backspace = 0x08
)

// CSVHeader starts every block of samples written in DISPLAY.
const CSVHeader = "Time_L (s),Data_L,Time_R (s),Data_R"

// Delimiters around a block of samples.
const (
	BeginData = "-----BEGIN DATA-----"
	EndData   = "-----END DATA-----"
)

// HelpMenu lists the commands.
const HelpMenu = "\r\n" +
	"+---+------------------------------------------+\r\n" +
	"| h | print this menu                          |\r\n" +
	"| g | run a batch on both motors and print it  |\r\n" +
	"| l | run a batch on the left motor            |\r\n" +
	"| r | run a batch on the right motor           |\r\n" +
	"| k | enter a new gain                         |\r\n" +
	"| s | enter a new setpoint                     |\r\n" +
	"| c | calibrate the line sensor                |\r\n" +
	"| m | follow the line until any key            |\r\n" +
	"| t | print task and share report              |\r\n" +
	"+---+------------------------------------------+\r\n"

// Side groups the shares of one motor task.
type Side struct {
	Go       *share.Cell[bool]
	Setpoint *share.Cell[float64]
	Data     *share.Queue[float64]
	Times    *share.Queue[int64]
}

func (s *Side) valid() bool {
	return s.Go != nil && s.Setpoint != nil && s.Data != nil && s.Times != nil
}

// Config wires a Task to its collaborators.
type Config struct {
	Transport transport.Transport
	Left      Side
	Right     Side
	Gain      *share.Cell[float64]

	// Line following is available when Line is set. Follow is raised
	// while following so the motor tasks run without recording, and
	// LineGain scales the centroid into a setpoint offset.
	Line     drivers.LinePositionSensor
	Follow   *share.Cell[bool]
	LineGain *share.Cell[float64]

	// Report writes diagnostics for the t command.
	Report func(io.Writer) error
}

type setTarget int

const (
	setGain setTarget = iota
	setSetpoint
)

// Task is the user interface state machine.
type Task struct {
	Config

	state     State
	buf       []byte
	target    setTarget
	baseLeft  float64
	baseRight float64
}

// New validates config and creates a Task.
func New(config Config) (*Task, error) {
	switch {
	case config.Transport == nil:
		return nil, fx.Misconfigured("user task", "no transport")
	case !config.Left.valid() || !config.Right.valid():
		return nil, fx.Misconfigured("user task", "incomplete motor shares")
	case config.Gain == nil:
		return nil, fx.Misconfigured("user task", "no gain cell")
	case config.Line != nil && (config.Follow == nil || config.LineGain == nil):
		return nil, fx.Misconfigured("user task", "line sensor without follow or line gain cell")
	}
	return &Task{Config: config}, nil
}

// State implements cotask.StateReporter.
func (t *Task) State() string {
	return t.state.String()
}

// Current returns the current state.
func (t *Task) Current() State {
	return t.state
}

func (t *Task) println(text string) {
	t.Transport.Write(text + "\r\n")
}

// Step implements cotask.Machine.
func (t *Task) Step(sc cotask.StepContext) error {
	switch t.state {
	case StateInit:
		t.Transport.Write(HelpMenu)
		t.state = StateCmd
	case StateCmd:
		t.command()
	case StateCollect:
		t.collect()
	case StateDisplay:
		t.display()
	case StateSet:
		t.edit()
	case StateCalibrateWhite, StateCalibrateBlack:
		t.calibrate()
	case StateFollow:
		t.follow()
	}
	return nil
}

func (t *Task) command() {
	if !t.Transport.Any() {
		return
	}
	in := t.Transport.Read(1)
	if len(in) == 0 {
		return
	}
	switch c := in[0]; c {
	case '\r', '\n', ' ', '\t':
	case 'h', 'H':
		t.state = StateInit
	case 'g', 'G':
		t.startBatch(&t.Left, &t.Right)
	case 'l', 'L':
		t.startBatch(&t.Left)
	case 'r', 'R':
		t.startBatch(&t.Right)
	case 'k', 'K':
		t.println("Input desired gain:")
		t.beginEdit(setGain)
	case 's', 'S':
		t.println("Input desired setpoint:")
		t.beginEdit(setSetpoint)
	case 'c', 'C':
		if !t.lineAvailable() {
			break
		}
		t.println("Place the sensor over white and press any key")
		t.state = StateCalibrateWhite
	case 'm', 'M':
		if !t.lineAvailable() {
			break
		}
		t.startFollow()
	case 't', 'T':
		t.report()
	default:
		glog.V(3).Infof("invalid command %q", c)
		t.println("Invalid command")
		t.state = StateInit
	}
}

func (t *Task) lineAvailable() bool {
	if t.Line == nil {
		t.println("Line sensor not available")
		t.state = StateInit
		return false
	}
	return true
}

func (t *Task) startBatch(sides ...*Side) {
	for _, s := range sides {
		s.Go.Put(true)
	}
	t.println("Step response triggered...")
	t.println("Data collecting...")
	t.state = StateCollect
}

func (t *Task) collect() {
	// input is discarded so it does not pile up behind the batch
	for t.Transport.Any() {
		t.Transport.Read(64)
	}
	if t.Left.Go.Get() || t.Right.Go.Get() {
		return
	}
	t.println("Data collection complete...")
	t.println(BeginData)
	t.println(CSVHeader)
	t.state = StateDisplay
}

func (t *Task) display() {
	if t.Transport.Pending() >= DisplayBacklog {
		return
	}
	left, okL := popSample(&t.Left)
	right, okR := popSample(&t.Right)
	if !okL && !okR {
		t.println(EndData)
		t.state = StateCmd
		return
	}
	t.println(left + "," + right)
}

// popSample formats one (time, data) pair or two empty fields.
func popSample(s *Side) (string, bool) {
	if s.Data.Empty() || s.Times.Empty() {
		return ",", false
	}
	us, _ := s.Times.Get()
	v, _ := s.Data.Get()
	return strconv.FormatFloat(float64(us)/1e6, 'f', 6, 64) + "," +
		strconv.FormatFloat(v, 'g', -1, 64), true
}

func (t *Task) beginEdit(target setTarget) {
	t.target = target
	t.buf = t.buf[:0]
	t.state = StateSet
}

func (t *Task) edit() {
	if !t.Transport.Any() {
		return
	}
	in := t.Transport.Read(1)
	if len(in) == 0 {
		return
	}
	switch c := in[0]; {
	case c >= '0' && c <= '9':
		t.echo(c)
	case c == '.' && !strings.ContainsRune(string(t.buf), '.'):
		t.echo(c)
	case c == '-' && len(t.buf) == 0:
		t.echo(c)
	case c == Rubout || c == Backspace:
		if len(t.buf) > 0 {
			t.buf = t.buf[:len(t.buf)-1]
			t.Transport.Write("\b \b")
		}
	case c == '\r' || c == '\n':
		text := string(t.buf)
		t.buf = t.buf[:0]
		t.state = StateInit
		if text == "" || text == "-" || text == "." {
			t.println("\r\nValue not changed")
			return
		}
		v, err := parseValue(text)
		if err != nil {
			glog.V(2).Infof("user task: %v", err)
			t.println("\r\nValue not changed")
			return
		}
		t.apply(v)
	}
}

func (t *Task) echo(c byte) {
	t.buf = append(t.buf, c)
	t.Transport.Write(string(c))
}

func parseValue(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &InputParseError{Input: text, Err: err}
	}
	return v, nil
}

func (t *Task) apply(v float64) {
	switch t.target {
	case setGain:
		t.Gain.Put(v)
		t.println(fmt.Sprintf("\r\nGain set to %g", v))
	case setSetpoint:
		t.Left.Setpoint.Put(v)
		t.Right.Setpoint.Put(v)
		t.println(fmt.Sprintf("\r\nSetpoint set to %g", v))
	}
}

func (t *Task) calibrate() {
	if !t.Transport.Any() {
		return
	}
	t.Transport.Read(64)
	if t.state == StateCalibrateWhite {
		t.println(fmt.Sprintf("White: %v", t.Line.CalibrateWhite()))
		t.println("Place the sensor over black and press any key")
		t.state = StateCalibrateBlack
		return
	}
	t.println(fmt.Sprintf("Black: %v", t.Line.CalibrateBlack()))
	t.state = StateInit
}

func (t *Task) startFollow() {
	t.baseLeft = t.Left.Setpoint.Get()
	t.baseRight = t.Right.Setpoint.Get()
	t.Follow.Put(true)
	t.Left.Go.Put(true)
	t.Right.Go.Put(true)
	t.println("Line following, press any key to stop")
	t.state = StateFollow
}

func (t *Task) follow() {
	if t.Transport.Any() {
		for t.Transport.Any() {
			t.Transport.Read(64)
		}
		t.Left.Go.Put(false)
		t.Right.Go.Put(false)
		t.Follow.Put(false)
		t.Left.Setpoint.Put(t.baseLeft)
		t.Right.Setpoint.Put(t.baseRight)
		t.println("Line following stopped.")
		t.state = StateInit
		return
	}
	offset := t.LineGain.Get() * t.Line.Centroid()
	t.Left.Setpoint.Put(t.baseLeft - offset)
	t.Right.Setpoint.Put(t.baseRight + offset)
}

func (t *Task) report() {
	if t.Report == nil {
		t.println("No report available")
		return
	}
	var sb strings.Builder
	if err := t.Report(&sb); err != nil {
		t.println("Report failed: " + err.Error())
		return
	}
	t.Transport.Write(strings.ReplaceAll(sb.String(), "\n", "\r\n"))
}
