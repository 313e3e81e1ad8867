// Package sim simulates the Romi drivetrain on a host: two first-order
// DC motor plants with quadrature counters, the robot pose they produce,
// and a line track seen by a reflectance sensor array.
//
// The plant is advanced lazily to the clock time whenever a hardware
// reading is taken, so it stays in step with whatever TimeSource drives
// the scheduler.
package sim

import "math"

// Pos2D defines the position in 2D, in mm.
type Pos2D struct {
	X, Y float64
}

// Pose2D defines the pose in 2D.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is an angle in radians normalized to (-π, π].
type Angle float64

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// OffsetBy performs Add in-place.
func (p *Pos2D) OffsetBy(p1 Pos2D) *Pos2D {
	p.X += p1.X
	p.Y += p1.Y
	return p
}

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return AngleFromRadians(d * math.Pi / 180.0)
}

// AngleFromRadians creates Angle from radians.
func AngleFromRadians(r float64) Angle {
	r = math.Remainder(r, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return Angle(r)
}

// AddRadians adds radians to current angle.
func (a Angle) AddRadians(r float64) Angle {
	return AngleFromRadians(float64(a) + r)
}

// Degrees gets angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Project projects distance into X and Y.
func (a Angle) Project(dist float64) Pos2D {
	return Pos2D{X: dist * math.Cos(float64(a)), Y: dist * math.Sin(float64(a))}
}

// Rotate rotates a vector given in the frame of a.
func (a Angle) Rotate(v Pos2D) Pos2D {
	c, s := math.Cos(float64(a)), math.Sin(float64(a))
	return Pos2D{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}
