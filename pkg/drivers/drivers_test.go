package drivers

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/romi.go/pkg/framework"
)

type fakePin struct{ high bool }

func (p *fakePin) Set(high bool) { p.high = high }

type fakePWM struct{ pct float64 }

func (p *fakePWM) SetPulseWidthPercent(pct float64) { p.pct = pct }

type fakeCounter struct{ count uint32 }

func (c *fakeCounter) Count() uint32     { return c.count }
func (c *fakeCounter) SetCount(v uint32) { c.count = v }

type fakeADC struct{ value int }

func (a *fakeADC) Read() int { return a.value }

func TestMotorDriverEffort(t *testing.T) {
	cases := []struct {
		effort float64
		pwm    float64
		dir    bool
	}{
		{0, 0, false},
		{42.5, 42.5, false},
		{-30, 30, true},
		{150, 100, false},
		{-250, 100, true},
		{math.NaN(), 0, false},
	}
	for _, c := range cases {
		pwm, dir, sleep := &fakePWM{}, &fakePin{}, &fakePin{}
		m := NewMotorDriver("left", pwm, dir, sleep)
		m.SetEffort(c.effort)
		require.Equal(t, c.pwm, pwm.pct, "effort %v", c.effort)
		require.Equal(t, c.dir, dir.high, "effort %v", c.effort)
	}
}

func TestMotorDriverEnable(t *testing.T) {
	pwm, dir, sleep := &fakePWM{}, &fakePin{}, &fakePin{}
	m := NewMotorDriver("left", pwm, dir, sleep)
	require.False(t, sleep.high)
	m.Enable()
	require.True(t, sleep.high)
	require.True(t, m.Enabled())
	m.Disable()
	require.False(t, sleep.high)
	require.False(t, m.Enabled())
}

func TestWrapDelta(t *testing.T) {
	cases := []struct {
		name      string
		prev, cur uint32
		bits      uint
		delta     int64
	}{
		{"forward across reload", 65530, 4, 16, 10},
		{"backward across reload", 4, 65530, 16, -10},
		{"plain forward", 100, 250, 16, 150},
		{"plain backward", 250, 100, 16, -150},
		{"no motion", 7, 7, 16, 0},
		{"half span", 0, 32767, 16, 32767},
		{"32 bit wrap", math.MaxUint32 - 1, 3, 32, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.delta, WrapDelta(c.prev, c.cur, c.bits))
		})
	}
}

func TestEncoder(t *testing.T) {
	clock := fx.NewManualClock(time.Unix(0, 0))
	counter := &fakeCounter{count: 65530}
	enc := NewEncoder(counter, clock, 16, 0.5)

	counter.count = 4
	clock.Advance(10 * time.Millisecond)
	enc.Update()
	require.Equal(t, 5.0, enc.Position())
	require.Equal(t, 5.0, enc.Delta())
	require.InDelta(t, 500.0, enc.Velocity(), 1e-9)

	counter.count = 65535
	clock.Advance(10 * time.Millisecond)
	enc.Update()
	require.Equal(t, 2.5, enc.Position())
	require.InDelta(t, -250.0, enc.Velocity(), 1e-9)

	enc.Zero()
	require.Zero(t, enc.Position())
	require.Zero(t, counter.count)
	counter.count = 2
	clock.Advance(time.Millisecond)
	enc.Update()
	require.Equal(t, 1.0, enc.Position())
}

func TestEncoderVelocityWithoutElapsedTime(t *testing.T) {
	enc := NewEncoder(&fakeCounter{}, fx.NewManualClock(time.Unix(0, 0)), 16, 1)
	enc.Update()
	require.Zero(t, enc.Velocity())
}

func TestLineSensor(t *testing.T) {
	adcs := []*fakeADC{{}, {}, {}, {}, {}, {}, {}}
	channels := make([]ADC, len(adcs))
	for i, a := range adcs {
		channels[i] = a
	}
	s := NewLineSensor(channels, RomiLineSpacing, RomiLineLimit)
	require.Equal(t, []float64{-24, -16, -8, 0, 8, 16, 24}, s.Positions())

	set := func(values ...int) {
		for i, v := range values {
			adcs[i].value = v
		}
	}
	set(100, 100, 100, 100, 100, 100, 100)
	s.CalibrateWhite()
	set(900, 900, 900, 900, 900, 900, 900)
	s.CalibrateBlack()

	t.Run("centered", func(t *testing.T) {
		set(100, 100, 100, 900, 100, 100, 100)
		require.InDelta(t, 0, s.Centroid(), 1e-9)
	})
	t.Run("between channels", func(t *testing.T) {
		set(100, 100, 100, 100, 900, 900, 100)
		require.InDelta(t, 12, s.Centroid(), 1e-9)
	})
	t.Run("left edge", func(t *testing.T) {
		set(900, 100, 100, 100, 100, 100, 100)
		require.InDelta(t, -24, s.Centroid(), 1e-9)
	})
	t.Run("lost line keeps estimate", func(t *testing.T) {
		set(100, 100, 100, 100, 100, 100, 100)
		require.InDelta(t, -24, s.Centroid(), 1e-9)
	})
}

func TestLineSensorClamp(t *testing.T) {
	a, b := &fakeADC{value: 0}, &fakeADC{value: 0}
	s := NewLineSensor([]ADC{a, b}, 100, RomiLineLimit)
	s.CalibrateWhite()
	a.value, b.value = 10, 10
	s.CalibrateBlack()
	b.value = 10
	a.value = 0
	require.Equal(t, RomiLineLimit, s.Centroid())
}
