// Package telemetry publishes controller snapshots over MQTT: scheduler
// statistics, selected cell values and the observer estimate.
package telemetry

import (
	"github.com/robotalks/romi.go/pkg/cotask"
	pb "github.com/robotalks/romi.go/pkg/proto/romi/v1"
	"github.com/robotalks/romi.go/pkg/share"
)

// Offerer accepts snapshots without blocking.
type Offerer interface {
	Offer(*pb.Snapshot) bool
}

// Task builds a snapshot every step and offers it to a Publisher.
type Task struct {
	ControllerID string
	Scheduler    *cotask.Scheduler
	Cells        []*share.Cell[float64]
	Estimate     func() []float64
	Out          Offerer
}

// Snapshot builds a snapshot at the step time.
func (t *Task) Snapshot(sc cotask.StepContext) *pb.Snapshot {
	s := &pb.Snapshot{
		ControllerId: t.ControllerID,
		TimestampUs:  sc.Time().UnixNano() / 1000,
	}
	if t.Scheduler != nil {
		s.Passes = int64(t.Scheduler.Passes())
		for _, task := range t.Scheduler.Tasks() {
			st := task.Stats()
			s.Tasks = append(s.Tasks, &pb.TaskStats{
				Name:     task.Name,
				Priority: int32(task.Priority),
				PeriodUs: task.Period.Microseconds(),
				State:    task.State(),
				Runs:     int64(st.Runs),
				LateRuns: int64(st.LateRuns),
				Overruns: int64(st.Overruns),
				Faults:   int64(st.Faults),
				LastUs:   st.LastDuration.Microseconds(),
				MaxUs:    st.MaxDuration.Microseconds(),
				Disabled: task.Disabled(),
			})
		}
	}
	for _, c := range t.Cells {
		s.Cells = append(s.Cells, &pb.Sample{Name: c.Name(), Value: c.Get()})
	}
	if t.Estimate != nil {
		s.Estimate = append([]float64(nil), t.Estimate()...)
	}
	return s
}

// Step implements cotask.Machine.
func (t *Task) Step(sc cotask.StepContext) error {
	t.Out.Offer(t.Snapshot(sc))
	return nil
}
