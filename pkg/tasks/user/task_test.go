package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/romi.go/pkg/cotask"
	"github.com/robotalks/romi.go/pkg/share"
	"github.com/robotalks/romi.go/pkg/transport"
)

type fakeLine struct {
	centroid     float64
	white, black int
}

func (l *fakeLine) CalibrateWhite() []float64 { l.white++; return []float64{1, 2} }
func (l *fakeLine) CalibrateBlack() []float64 { l.black++; return []float64{9, 8} }
func (l *fakeLine) Centroid() float64         { return l.centroid }

type fixture struct {
	task *Task
	io   *transport.Buffer
	line *fakeLine
}

func newSide(name string) Side {
	return Side{
		Go:       share.NewCell(name+" go", false),
		Setpoint: share.NewCell(name+" setpoint", 250.0),
		Data:     share.MustNewQueue[float64](name+" data", 50),
		Times:    share.MustNewQueue[int64](name+" times", 50),
	}
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{io: transport.NewBuffer(), line: &fakeLine{}}
	task, err := New(Config{
		Transport: f.io,
		Left:      newSide("left"),
		Right:     newSide("right"),
		Gain:      share.NewCell("gain", 100.0/549),
		Line:      f.line,
		Follow:    share.NewCell("follow", false),
		LineGain:  share.NewCell("line gain", 3.5),
		Report: func(w io.Writer) error {
			_, err := io.WriteString(w, "a\nb\n")
			return err
		},
	})
	require.NoError(t, err)
	f.task = task
	return f
}

func (f *fixture) step(t *testing.T, n int) {
	sc := cotask.NewStepContext(context.Background(), time.Unix(0, 0), "user")
	for i := 0; i < n; i++ {
		require.NoError(t, f.task.Step(sc))
	}
}

// run steps until the input is consumed.
func (f *fixture) run(t *testing.T, input string) {
	f.io.Feed(input)
	for i := 0; f.io.Any() && i < 1000; i++ {
		f.step(t, 1)
	}
}

func TestHelpOnInit(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	require.Equal(t, StateCmd, f.task.Current())
	require.Equal(t, HelpMenu, f.io.TakeOutput())
	f.step(t, 3)
	require.Equal(t, StateCmd, f.task.Current())
	require.Empty(t, f.io.Output())
}

func TestSetGain(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.run(t, "k")
	require.Equal(t, StateSet, f.task.Current())
	f.io.TakeOutput()

	for _, c := range "12.5" {
		f.run(t, string(c))
		require.Equal(t, StateSet, f.task.Current())
	}
	f.run(t, "\r")
	require.Equal(t, StateInit, f.task.Current())
	require.Equal(t, 12.5, f.task.Gain.Get())
	require.Equal(t, "12.5\r\nGain set to 12.5\r\n", f.io.TakeOutput())
}

func TestSetEmptyLeavesValue(t *testing.T) {
	for _, input := range []string{"\r", "-\r", ".\n", "-.\r", "1\x7f\r"} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			f := newFixture(t)
			f.step(t, 1)
			f.run(t, "k")
			f.run(t, input)
			require.Equal(t, StateInit, f.task.Current())
			require.Equal(t, 100.0/549, f.task.Gain.Get())
			require.Contains(t, f.io.Output(), "Value not changed")
		})
	}
}

func TestSetEditing(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.run(t, "s")
	// the second '-' and '.' are ignored, x is not a digit.
	f.run(t, "-4x.5.-\x7f3\b7\r")
	require.Equal(t, StateInit, f.task.Current())
	require.Equal(t, -4.7, f.task.Left.Setpoint.Get())
	require.Equal(t, -4.7, f.task.Right.Setpoint.Get())
	require.Contains(t, f.io.Output(), "Setpoint set to -4.7")
}

func TestInvalidCommand(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.run(t, "z")
	require.Equal(t, StateInit, f.task.Current())
	require.Contains(t, f.io.Output(), "Invalid command")
}

func TestCollectAndDisplay(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.run(t, "g")
	require.Equal(t, StateCollect, f.task.Current())
	require.True(t, f.task.Left.Go.Get())
	require.True(t, f.task.Right.Go.Get())

	f.io.Feed("xyz")
	f.step(t, 1)
	require.False(t, f.io.Any())
	require.Equal(t, StateCollect, f.task.Current())

	for i, side := range []*Side{&f.task.Left, &f.task.Right} {
		require.NoError(t, side.Times.Put(20000))
		require.NoError(t, side.Data.Put(float64(10*(i+1))))
		require.NoError(t, side.Times.Put(40000))
		require.NoError(t, side.Data.Put(float64(11*(i+1))))
	}
	f.task.Left.Go.Put(false)
	f.step(t, 1)
	require.Equal(t, StateCollect, f.task.Current())
	f.task.Right.Go.Put(false)
	f.step(t, 1)
	require.Equal(t, StateDisplay, f.task.Current())
	f.io.TakeOutput()

	f.step(t, 3)
	require.Equal(t, StateCmd, f.task.Current())
	require.Equal(t,
		"0.020000,10,0.020000,20\r\n"+
			"0.040000,11,0.040000,22\r\n"+
			EndData+"\r\n",
		f.io.Output())
}

func TestDisplaySingleSide(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.run(t, "r")
	require.False(t, f.task.Left.Go.Get())
	require.True(t, f.task.Right.Go.Get())
	require.NoError(t, f.task.Right.Times.Put(20000))
	require.NoError(t, f.task.Right.Data.Put(3))
	f.task.Right.Go.Put(false)
	f.step(t, 1)
	f.io.TakeOutput()
	f.step(t, 2)
	require.Equal(t, ",,0.020000,3\r\n"+EndData+"\r\n", f.io.Output())
}

func TestDisplayYieldsToBacklog(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.task.Left.Times.Put(20000))
	require.NoError(t, f.task.Left.Data.Put(7))
	f.task.state = StateDisplay

	f.io.SetPending(DisplayBacklog)
	f.step(t, 5)
	require.Equal(t, StateDisplay, f.task.Current())
	require.Equal(t, 1, f.task.Left.Data.Len())
	require.Empty(t, f.io.Output())

	f.io.SetPending(DisplayBacklog - 1)
	f.step(t, 2)
	require.Equal(t, StateCmd, f.task.Current())
	require.Equal(t, "0.020000,7,,\r\n"+EndData+"\r\n", f.io.Output())
}

// slowConn accepts writes at a fixed pace and blocks reads until closed.
type slowConn struct {
	delay  time.Duration
	closed chan struct{}
	lock   sync.Mutex
	out    strings.Builder
}

func (c *slowConn) Read([]byte) (int, error) {
	<-c.closed
	return 0, io.EOF
}

func (c *slowConn) Write(p []byte) (int, error) {
	time.Sleep(c.delay)
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.out.Write(p)
}

func (c *slowConn) Close() error {
	close(c.closed)
	return nil
}

func (c *slowConn) Output() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.out.String()
}

func TestDisplayOverSlowStream(t *testing.T) {
	const rows = 400
	conn := &slowConn{delay: 2 * time.Millisecond, closed: make(chan struct{})}
	stream := transport.NewStream("slow", conn)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.Run(ctx)

	side := func(name string) Side {
		s := newSide(name)
		s.Data = share.MustNewQueue[float64](name+" data", rows)
		s.Times = share.MustNewQueue[int64](name+" times", rows)
		for n := 0; n < rows; n++ {
			require.NoError(t, s.Times.Put(int64(n)*1000))
			require.NoError(t, s.Data.Put(float64(n)))
		}
		return s
	}
	task, err := New(Config{
		Transport: stream,
		Left:      side("left"),
		Right:     side("right"),
		Gain:      share.NewCell("gain", 1.0),
	})
	require.NoError(t, err)
	task.state = StateDisplay

	sc := cotask.NewStepContext(context.Background(), time.Unix(0, 0), "user")
	deadline := time.Now().Add(10 * time.Second)
	for task.Current() == StateDisplay && time.Now().Before(deadline) {
		require.NoError(t, task.Step(sc))
		time.Sleep(100 * time.Microsecond)
	}
	require.Equal(t, StateCmd, task.Current())
	require.Eventually(t, func() bool {
		return strings.HasSuffix(conn.Output(), EndData+"\r\n")
	}, 5*time.Second, time.Millisecond)

	lines := strings.Split(strings.TrimSuffix(conn.Output(), "\r\n"), "\r\n")
	require.Len(t, lines, rows+1)
	require.Equal(t, "0.000000,0,0.000000,0", lines[0])
	require.Equal(t, "0.399000,399,0.399000,399", lines[rows-1])
	require.Zero(t, stream.Dropped())
}

func TestCalibrate(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.run(t, "c")
	require.Equal(t, StateCalibrateWhite, f.task.Current())
	f.step(t, 2)
	require.Zero(t, f.line.white)
	f.run(t, " ")
	require.Equal(t, 1, f.line.white)
	require.Equal(t, StateCalibrateBlack, f.task.Current())
	f.run(t, " ")
	require.Equal(t, 1, f.line.black)
	require.Equal(t, StateInit, f.task.Current())
}

func TestLineFollow(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.run(t, "m")
	require.Equal(t, StateFollow, f.task.Current())
	require.True(t, f.task.Follow.Get())
	require.True(t, f.task.Left.Go.Get())

	f.line.centroid = 4
	f.step(t, 1)
	require.Equal(t, 250-3.5*4, f.task.Left.Setpoint.Get())
	require.Equal(t, 250+3.5*4, f.task.Right.Setpoint.Get())

	f.run(t, "q")
	require.Equal(t, StateInit, f.task.Current())
	require.False(t, f.task.Follow.Get())
	require.False(t, f.task.Left.Go.Get())
	require.False(t, f.task.Right.Go.Get())
	require.Equal(t, 250.0, f.task.Left.Setpoint.Get())
	require.Equal(t, 250.0, f.task.Right.Setpoint.Get())
}

func TestLineSensorUnavailable(t *testing.T) {
	f := newFixture(t)
	f.task.Line = nil
	f.step(t, 1)
	f.run(t, "m")
	require.Equal(t, StateInit, f.task.Current())
	require.Contains(t, f.io.Output(), "Line sensor not available")
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	f.step(t, 1)
	f.io.TakeOutput()
	f.run(t, "t")
	require.Equal(t, StateCmd, f.task.Current())
	require.Equal(t, "a\r\nb\r\n", f.io.Output())
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	_, err = New(Config{
		Transport: transport.NewBuffer(),
		Left:      newSide("l"),
		Right:     newSide("r"),
		Gain:      share.NewCell("gain", 1.0),
		Line:      &fakeLine{},
	})
	require.Error(t, err)
}

func TestInputParseError(t *testing.T) {
	_, err := parseValue("-.")
	var pe *InputParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "-.", pe.Input)
}
