// Package observer implements the state estimator task, a Luenberger
// observer fusing control inputs and measurements read from cells.
package observer

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/robotalks/romi.go/pkg/cotask"
	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/share"
	"github.com/robotalks/romi.go/pkg/transport"
)

// DefaultReportInterval is the cadence of output reports.
const DefaultReportInterval = 500 * time.Millisecond

// State of the observer task.
type State int

// States.
const (
	StateInit State = iota
	StateRun
)

func (s State) String() string {
	if s == StateRun {
		return "RUN"
	}
	return "INIT"
}

// Config wires a Task to its cells.
type Config struct {
	Model *Model
	// Inputs are read in order to form u. Scale, if set, multiplies
	// each input.
	Inputs []*share.Cell[float64]
	Scale  []float64
	// States receive the estimate components; nil entries are skipped.
	States []*share.Cell[float64]

	// Transport receives the output report every ReportInterval.
	Transport      transport.Transport
	ReportInterval time.Duration
}

// Task is the observer state machine.
type Task struct {
	Config

	state   State
	est     *Estimator
	u       []float64
	y       []float64
	limiter *rate.Limiter
	reports int
}

// New validates the model against the wiring and creates a Task.
func New(config Config) (*Task, error) {
	if config.Model == nil {
		return nil, fx.Misconfigured("observer task", "no model")
	}
	est, err := NewEstimator(config.Model)
	if err != nil {
		return nil, err
	}
	n, k, _ := config.Model.Dims()
	switch {
	case len(config.Inputs) != k:
		return nil, fx.Misconfigured("observer task",
			fmt.Sprintf("%d input cells, model takes %d", len(config.Inputs), k))
	case len(config.Scale) != 0 && len(config.Scale) != k:
		return nil, fx.Misconfigured("observer task",
			fmt.Sprintf("%d input scales, model takes %d", len(config.Scale), k))
	case len(config.States) != 0 && len(config.States) != n:
		return nil, fx.Misconfigured("observer task",
			fmt.Sprintf("%d state cells, model has %d", len(config.States), n))
	}
	for i, c := range config.Inputs {
		if c == nil {
			return nil, fx.Misconfigured("observer task", fmt.Sprintf("input %d has no cell", i))
		}
	}
	if config.ReportInterval <= 0 {
		config.ReportInterval = DefaultReportInterval
	}
	return &Task{
		Config:  config,
		est:     est,
		u:       make([]float64, k),
		limiter: rate.NewLimiter(rate.Every(config.ReportInterval), 1),
	}, nil
}

// State implements cotask.StateReporter.
func (t *Task) State() string {
	return t.state.String()
}

// Estimate returns the current estimate.
func (t *Task) Estimate() []float64 {
	return t.est.State()
}

// Reports returns the number of reports written.
func (t *Task) Reports() int {
	return t.reports
}

// Step implements cotask.Machine.
func (t *Task) Step(sc cotask.StepContext) error {
	switch t.state {
	case StateInit:
		t.est.Reset()
		// the first report is due one interval from now
		t.limiter.AllowN(sc.Time(), 1)
		t.state = StateRun
	case StateRun:
		for i, c := range t.Inputs {
			t.u[i] = c.Get()
			if len(t.Scale) > 0 {
				t.u[i] *= t.Scale[i]
			}
		}
		t.est.Update(t.u)
		for i, c := range t.States {
			if c != nil {
				c.Put(t.est.State()[i])
			}
		}
		if t.limiter.AllowN(sc.Time(), 1) {
			t.report()
		}
	}
	return nil
}

func (t *Task) report() {
	t.y = t.est.Output(t.y)
	t.reports++
	if t.Transport == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString("--- Observer Estimated Outputs ---\r\n")
	for i, v := range t.y {
		name := fmt.Sprintf("y%d", i)
		if i < len(t.Model.Outputs) {
			name = t.Model.Outputs[i]
		}
		fmt.Fprintf(&sb, "  %-12s: %.4f\r\n", name, v)
	}
	sb.WriteString("\r\n")
	t.Transport.Write(sb.String())
}
