package observer

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	fx "github.com/robotalks/romi.go/pkg/framework"
)

// Model is a discrete-time linear observer
//
//	x[k+1] = A·x[k] + B·u[k]
//	y[k]   = C·x[k]
//
// where u is the augmented input: control inputs followed by measurements.
type Model struct {
	A [][]float64 `yaml:"a"`
	B [][]float64 `yaml:"b"`
	C [][]float64 `yaml:"c"`

	// Optional labels, used in reports.
	States  []string `yaml:"states,omitempty"`
	Inputs  []string `yaml:"inputs,omitempty"`
	Outputs []string `yaml:"outputs,omitempty"`
}

// Dims returns the state, input and output sizes.
func (m *Model) Dims() (states, inputs, outputs int) {
	states, outputs = len(m.A), len(m.C)
	if len(m.B) > 0 {
		inputs = len(m.B[0])
	}
	return
}

// Validate checks the matrix dimensions agree.
func (m *Model) Validate() error {
	n, k, p := m.Dims()
	switch {
	case n == 0:
		return fx.Misconfigured("observer model", "empty A")
	case len(m.B) != n:
		return fx.Misconfigured("observer model", fmt.Sprintf("B has %d rows, want %d", len(m.B), n))
	case k == 0:
		return fx.Misconfigured("observer model", "B has no columns")
	case p == 0:
		return fx.Misconfigured("observer model", "empty C")
	}
	if err := checkCols("A", m.A, n); err != nil {
		return err
	}
	if err := checkCols("B", m.B, k); err != nil {
		return err
	}
	if err := checkCols("C", m.C, n); err != nil {
		return err
	}
	if err := checkLabels("states", m.States, n); err != nil {
		return err
	}
	if err := checkLabels("inputs", m.Inputs, k); err != nil {
		return err
	}
	return checkLabels("outputs", m.Outputs, p)
}

func checkCols(name string, mat [][]float64, cols int) error {
	for i, row := range mat {
		if len(row) != cols {
			return fx.Misconfigured("observer model",
				fmt.Sprintf("%s row %d has %d columns, want %d", name, i, len(row), cols))
		}
	}
	return nil
}

func checkLabels(name string, labels []string, size int) error {
	if len(labels) != 0 && len(labels) != size {
		return fx.Misconfigured("observer model",
			fmt.Sprintf("%d %s labels, want %d", len(labels), name, size))
	}
	return nil
}

// ParseModel decodes and validates a YAML model.
func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadModel reads a YAML model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseModel(data)
}

// Romi geometry used by the default output matrix, in mm.
const (
	wheelRadius = 35.0
	trackWidth  = 149.0
)

// DefaultModel returns the observer identified for the Romi, with state
// [S, psi, omegaL, omegaR] and input [uL, uR, sL, sR, psi, psi_dot].
func DefaultModel() *Model {
	const r, w = wheelRadius, trackWidth
	return &Model{
		A: [][]float64{
			{0.4789257245, 0, 0.2136304120, 0.2328848496},
			{0, 0.5827482524, 0, 0},
			{-0.0547845229, 0, 0.7173387147, 0.0805170340},
			{-0.0545961810, 0, 0.0733082364, 0.7246226877},
		},
		B: [][]float64{
			{0.1452242790, 0.1582588349, 0.2605371378, 0.2605371378, 0, -0.0432968956},
			{0, 0, -0.0029589346, 0.0029589346, 0.0000419707, 0.0154537684},
			{0.9910695320, 0.0546225919, 0.0273922615, 0.0273922615, 0, -0.4073186792},
			{0.0497411433, 0.9959837044, 0.0272980905, 0.0272980905, 0, 0.3747345585},
		},
		C: [][]float64{
			{1, -w / 2, 0, 0},
			{1, w / 2, 0, 0},
			{0, 1, 0, 0},
			{0, 0, -r / w, r / w},
		},
		States:  []string{"S", "psi", "omegaL", "omegaR"},
		Inputs:  []string{"uL", "uR", "sL", "sR", "psi", "psi_dot"},
		Outputs: []string{"sL_hat", "sR_hat", "psi_hat", "psi_dot_hat"},
	}
}
