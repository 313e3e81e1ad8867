package tuning

import (
	"github.com/golang/glog"

	"github.com/robotalks/romi.go/pkg/cotask"
	"github.com/robotalks/romi.go/pkg/share"
)

// Task applies parameters received from a Watcher to cells. It polls the
// channel without blocking.
type Task struct {
	Updates   <-chan *Params
	Gain      *share.Cell[float64]
	Setpoints []*share.Cell[float64]
	LineGain  *share.Cell[float64]

	applied int
}

// Applied returns the number of updates applied.
func (t *Task) Applied() int {
	return t.applied
}

// Step implements cotask.Machine.
func (t *Task) Step(sc cotask.StepContext) error {
	select {
	case p := <-t.Updates:
		t.apply(p)
		glog.Infof("%s: applied %v", sc.TaskName(), p)
	default:
	}
	return nil
}

func (t *Task) apply(p *Params) {
	t.applied++
	if p.Gain != nil && t.Gain != nil {
		t.Gain.Put(*p.Gain)
	}
	if p.Setpoint != nil {
		for _, c := range t.Setpoints {
			c.Put(*p.Setpoint)
		}
	}
	if p.LineGain != nil && t.LineGain != nil {
		t.LineGain.Put(*p.LineGain)
	}
}
