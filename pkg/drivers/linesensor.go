package drivers

import (
	"math"

	"github.com/golang/glog"
)

// Romi line sensor array geometry.
const (
	RomiLineSpacing = 8.0 // mm between channels
	RomiLineLimit   = 24.0
)

// LineSensor estimates the line position under a reflectance array as
// the calibrated, weighted average of channel positions.
type LineSensor struct {
	channels  []ADC
	positions []float64
	white     []float64
	black     []float64
	limit     float64
	centroid  float64
}

// NewLineSensor creates a LineSensor with channels evenly spaced and
// centered. Centroid is clamped to ±limit.
func NewLineSensor(channels []ADC, spacing, limit float64) *LineSensor {
	n := len(channels)
	s := &LineSensor{
		channels:  channels,
		positions: make([]float64, n),
		white:     make([]float64, n),
		black:     make([]float64, n),
		limit:     limit,
	}
	for i := range channels {
		s.positions[i] = spacing * (float64(i) - float64(n-1)/2)
		s.black[i] = 1
	}
	return s
}

// Positions returns the channel offsets from the center.
func (s *LineSensor) Positions() []float64 {
	return s.positions
}

// CalibrateWhite captures the readings over the background.
func (s *LineSensor) CalibrateWhite() []float64 {
	s.sample(s.white)
	glog.V(2).Infof("line sensor white: %v", s.white)
	return s.white
}

// CalibrateBlack captures the readings over the line.
func (s *LineSensor) CalibrateBlack() []float64 {
	s.sample(s.black)
	glog.V(2).Infof("line sensor black: %v", s.black)
	return s.black
}

// SetCalibration restores previously captured references.
func (s *LineSensor) SetCalibration(white, black []float64) {
	copy(s.white, white)
	copy(s.black, black)
}

func (s *LineSensor) sample(dst []float64) {
	for i, ch := range s.channels {
		dst[i] = float64(ch.Read())
	}
}

// Centroid returns the line position. When no channel sees the line
// the previous estimate is kept.
func (s *LineSensor) Centroid() float64 {
	var weighted, total float64
	for i, ch := range s.channels {
		span := s.black[i] - s.white[i]
		if span == 0 {
			continue
		}
		v := (float64(ch.Read()) - s.white[i]) / span
		weighted += s.positions[i] * v
		total += v
	}
	if total != 0 {
		s.centroid = math.Max(-s.limit, math.Min(s.limit, weighted/total))
	}
	return s.centroid
}
