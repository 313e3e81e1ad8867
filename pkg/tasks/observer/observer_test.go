package observer

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/romi.go/pkg/cotask"
	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/share"
	"github.com/robotalks/romi.go/pkg/transport"
)

func inputSequence(k int) [][]float64 {
	seq := make([][]float64, k)
	for n := range seq {
		u := make([]float64, 6)
		u[0] = 3.1 * math.Sin(float64(n)/7)
		u[1] = 3.1 * math.Cos(float64(n)/11)
		u[2] = float64(n) * 1.5
		u[3] = float64(n) * 1.25
		u[4] = 0.01 * float64(n)
		u[5] = 0.01
		seq[n] = u
	}
	return seq
}

func trajectory(t *testing.T, seq [][]float64) [][]uint64 {
	est, err := NewEstimator(DefaultModel())
	require.NoError(t, err)
	var out [][]uint64
	for _, u := range seq {
		est.Update(u)
		bits := make([]uint64, len(est.State()))
		for i, v := range est.State() {
			bits[i] = math.Float64bits(v)
		}
		out = append(out, bits)
	}
	return out
}

func TestEstimatorDeterministic(t *testing.T) {
	seq := inputSequence(200)
	require.Equal(t, trajectory(t, seq), trajectory(t, seq))
}

func TestEstimatorRecurrence(t *testing.T) {
	m := &Model{
		A: [][]float64{{0.5, 0}, {0, 2}},
		B: [][]float64{{1}, {0}},
		C: [][]float64{{1, 1}},
	}
	est, err := NewEstimator(m)
	require.NoError(t, err)
	est.Update([]float64{4})
	require.Equal(t, []float64{4, 0}, est.State())
	est.Update([]float64{1})
	require.Equal(t, []float64{3, 0}, est.State())
	require.Equal(t, []float64{3}, est.Output(nil))
	est.Reset()
	require.Equal(t, []float64{0, 0}, est.State())
}

func TestModelValidation(t *testing.T) {
	cases := []struct {
		name  string
		model Model
	}{
		{"empty", Model{}},
		{"B rows", Model{A: [][]float64{{1}}, B: [][]float64{{1}, {1}}, C: [][]float64{{1}}}},
		{"A not square", Model{A: [][]float64{{1, 2}}, B: [][]float64{{1}}, C: [][]float64{{1}}}},
		{"B ragged", Model{A: [][]float64{{1, 0}, {0, 1}}, B: [][]float64{{1, 2}, {1}}, C: [][]float64{{1, 1}}}},
		{"C columns", Model{A: [][]float64{{1}}, B: [][]float64{{1}}, C: [][]float64{{1, 2}}}},
		{"no C", Model{A: [][]float64{{1}}, B: [][]float64{{1}}}},
		{"labels", Model{A: [][]float64{{1}}, B: [][]float64{{1}}, C: [][]float64{{1}}, Inputs: []string{"a", "b"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.model.Validate()
			require.Error(t, err)
			require.IsType(t, &fx.ConfigurationError{}, err)
		})
	}
	require.NoError(t, DefaultModel().Validate())
}

func TestLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
a:
  - [0.5, 0]
  - [0, 0.25]
b:
  - [1, 0, 0]
  - [0, 1, 0]
c:
  - [1, -1]
outputs: [diff]
`), 0644))
	m, err := LoadModel(path)
	require.NoError(t, err)
	n, k, p := m.Dims()
	require.Equal(t, []int{2, 3, 1}, []int{n, k, p})
	require.Equal(t, []string{"diff"}, m.Outputs)

	require.NoError(t, os.WriteFile(path, []byte("a: [[1, 2]]\nb: [[1]]\nc: [[1]]\n"), 0644))
	_, err = LoadModel(path)
	require.IsType(t, &fx.ConfigurationError{}, err)

	_, err = LoadModel(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func newInputs(names ...string) []*share.Cell[float64] {
	cells := make([]*share.Cell[float64], len(names))
	for i, name := range names {
		cells[i] = share.NewCell(name, 0.0)
	}
	return cells
}

func TestTaskWiringValidation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	_, err = New(Config{Model: DefaultModel(), Inputs: newInputs("a", "b")})
	require.IsType(t, &fx.ConfigurationError{}, err)
	_, err = New(Config{
		Model:  DefaultModel(),
		Inputs: newInputs("1", "2", "3", "4", "5", "6"),
		States: newInputs("x"),
	})
	require.IsType(t, &fx.ConfigurationError{}, err)
}

func TestTaskMatchesEstimator(t *testing.T) {
	inputs := newInputs("uL", "uR", "sL", "sR", "psi", "psi_dot")
	states := newInputs("S", "psi", "omegaL", "omegaR")
	out := transport.NewBuffer()
	task, err := New(Config{
		Model:     DefaultModel(),
		Inputs:    inputs,
		Scale:     []float64{2, 2, 1, 1, 1, 1},
		States:    states,
		Transport: out,
	})
	require.NoError(t, err)
	ref, err := NewEstimator(DefaultModel())
	require.NoError(t, err)

	clock := fx.NewManualClock(time.Unix(0, 0))
	s := cotask.New(clock)
	s.Add(cotask.NewTask("observer", 1, 20*time.Millisecond, task))
	require.NoError(t, s.Start())

	seq := inputSequence(200)
	for n := 0; n <= 60; n++ {
		clock.Advance(20 * time.Millisecond)
		if n > 0 {
			u := seq[n]
			for i, c := range inputs {
				c.Put(u[i])
			}
			scaled := append([]float64(nil), u...)
			scaled[0] *= 2
			scaled[1] *= 2
			ref.Update(scaled)
		}
		require.NoError(t, s.RunPass(context.Background()))
	}
	require.Equal(t, ref.State(), task.Estimate())
	for i, c := range states {
		require.Equal(t, ref.State()[i], c.Get())
	}
	require.Equal(t, "RUN", task.State())

	// 60 updates over 1.2s report twice at a 500ms cadence.
	require.Equal(t, 2, task.Reports())
	report := out.Output()
	require.Equal(t, 2, strings.Count(report, "--- Observer Estimated Outputs ---"))
	require.Contains(t, report, "psi_dot_hat")
}

func TestShippedModelMatchesDefault(t *testing.T) {
	m, err := LoadModel(filepath.Join("..", "..", "..", "configs", "observer.yaml"))
	require.NoError(t, err)
	d := DefaultModel()
	require.Equal(t, d.States, m.States)
	require.Equal(t, d.Inputs, m.Inputs)
	for name, pair := range map[string][2][][]float64{"A": {d.A, m.A}, "B": {d.B, m.B}, "C": {d.C, m.C}} {
		require.Len(t, pair[1], len(pair[0]), name)
		for i := range pair[0] {
			require.InDeltaSlice(t, pair[0][i], pair[1][i], 1e-9, "%s row %d", name, i)
		}
	}
}
