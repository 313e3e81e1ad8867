package romi

import (
	"github.com/robotalks/romi.go/pkg/cotask"
	"github.com/robotalks/romi.go/pkg/share"
)

// YawSource reports the heading and its rate in radians.
type YawSource interface {
	Yaw() (psi, rate float64)
}

// gyroTask samples a YawSource into the cells read by the observer.
type gyroTask struct {
	source YawSource
	psi    *share.Cell[float64]
	rate   *share.Cell[float64]
}

func (g *gyroTask) Step(cotask.StepContext) error {
	psi, rate := g.source.Yaw()
	g.psi.Put(psi)
	g.rate.Put(rate)
	return nil
}
