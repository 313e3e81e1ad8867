package sim

import (
	"math"
	"time"

	"github.com/robotalks/romi.go/pkg/drivers"
	fx "github.com/robotalks/romi.go/pkg/framework"
)

// Config parameterizes a simulated Romi.
type Config struct {
	Wheel      WheelConfig
	TrackWidth float64
	// MaxStep bounds the integration step.
	MaxStep time.Duration
	Line    LineConfig
	Start   Pose2D
}

// DefaultConfig returns a Romi with the stock motors.
func DefaultConfig() Config {
	return Config{
		Wheel: WheelConfig{
			MaxSpeed:     700,
			TimeConstant: 0.06,
			CountsPerMM:  1 / drivers.RomiMillimetersPerCount,
			CounterBits:  16,
		},
		TrackWidth: drivers.RomiTrackWidth,
		MaxStep:    time.Millisecond,
		Line:       DefaultLineConfig(),
	}
}

// Robot is a simulated differential drive robot.
type Robot struct {
	Left  *Wheel
	Right *Wheel

	config Config
	clock  fx.TimeSource
	pose   Pose2D
	yaw    float64
	last   time.Time
	line   *LineArray
}

// NewRobot creates a Robot at rest at config.Start.
func NewRobot(clock fx.TimeSource, config Config) *Robot {
	r := &Robot{config: config, clock: clock, pose: config.Start, last: clock.Time()}
	r.Left = newWheel(r, config.Wheel)
	r.Right = newWheel(r, config.Wheel)
	r.line = newLineArray(r, config.Line)
	return r
}

// Pose returns the pose at the current clock time.
func (r *Robot) Pose() Pose2D {
	r.advance()
	return r.pose
}

// LineChannels returns the sensor array channels, rightmost first.
func (r *Robot) LineChannels() []drivers.ADC {
	return r.line.channels()
}

func (r *Robot) advance() {
	now := r.clock.Time()
	elapsed := now.Sub(r.last)
	if elapsed <= 0 {
		return
	}
	r.last = now
	maxStep := r.config.MaxStep
	if maxStep <= 0 {
		maxStep = elapsed
	}
	for elapsed > 0 {
		d := elapsed
		if d > maxStep {
			d = maxStep
		}
		elapsed -= d
		r.integrate(d.Seconds())
	}
}

func (r *Robot) integrate(dt float64) {
	dl := r.Left.step(dt)
	dr := r.Right.step(dt)
	dist := (dl + dr) / 2
	turn := (dr - dl) / r.config.TrackWidth
	mid := r.pose.Orientation.AddRadians(turn / 2)
	r.pose.Pos2D.OffsetBy(mid.Project(dist))
	r.pose.Orientation = r.pose.Orientation.AddRadians(turn)
	r.yaw += turn
}

// Yaw returns the unwrapped heading change since start in radians and
// the yaw rate in rad/s, as a gyro would report them.
func (r *Robot) Yaw() (psi, rate float64) {
	r.advance()
	return r.yaw, (r.Right.speed - r.Left.speed) / r.config.TrackWidth
}

// LineConfig describes the track and the sensor array.
type LineConfig struct {
	// Channels and Spacing lay out the array across the robot.
	Channels int
	Spacing  float64
	// Offset is the array distance ahead of the axle.
	Offset float64
	// Width of the dark line.
	Width float64
	// White and Black are the raw readings off and on the line.
	White, Black int
}

// DefaultLineConfig returns the 7 channel Romi array over a 20mm line
// along the X axis.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		Channels: 7,
		Spacing:  drivers.RomiLineSpacing,
		Offset:   70,
		Width:    20,
		White:    300,
		Black:    3500,
	}
}

// LineArray samples the track y=0 under the robot.
type LineArray struct {
	robot  *Robot
	config LineConfig
}

func newLineArray(r *Robot, config LineConfig) *LineArray {
	return &LineArray{robot: r, config: config}
}

func (a *LineArray) channels() []drivers.ADC {
	chs := make([]drivers.ADC, a.config.Channels)
	for i := range chs {
		// channel 0 is the rightmost one, matching drivers.LineSensor
		// positions increasing to the left.
		lateral := a.config.Spacing * (float64(i) - float64(a.config.Channels-1)/2)
		chs[i] = &lineChannel{array: a, lateral: lateral}
	}
	return chs
}

func (a *LineArray) read(lateral float64) int {
	pose := a.robot.Pose()
	p := pose.Pos2D.Add(pose.Orientation.Rotate(Pos2D{X: a.config.Offset, Y: lateral}))
	w := a.config.Width / 2
	if w <= 0 {
		return a.config.White
	}
	k := math.Exp(-(p.Y * p.Y) / (w * w))
	return a.config.White + int(math.Round(float64(a.config.Black-a.config.White)*k))
}

type lineChannel struct {
	array   *LineArray
	lateral float64
}

func (c *lineChannel) Read() int {
	return c.array.read(c.lateral)
}
