package observer

// Estimator runs the recurrence of a validated Model. Its only state is
// the estimate vector.
type Estimator struct {
	model *Model
	x     []float64
	next  []float64
}

// NewEstimator creates an Estimator with a zero estimate.
func NewEstimator(m *Model) (*Estimator, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	n, _, _ := m.Dims()
	return &Estimator{model: m, x: make([]float64, n), next: make([]float64, n)}, nil
}

// Model returns the model.
func (e *Estimator) Model() *Model {
	return e.model
}

// Reset zeros the estimate.
func (e *Estimator) Reset() {
	for i := range e.x {
		e.x[i] = 0
	}
}

// Update advances the estimate by one sample. len(u) must match the
// model's input size.
func (e *Estimator) Update(u []float64) {
	a, b := e.model.A, e.model.B
	for i := range e.next {
		var sum float64
		for j, v := range e.x {
			sum += a[i][j] * v
		}
		for j, v := range u {
			sum += b[i][j] * v
		}
		e.next[i] = sum
	}
	e.x, e.next = e.next, e.x
}

// State returns the estimate. The slice is owned by the Estimator.
func (e *Estimator) State() []float64 {
	return e.x
}

// Output computes C·x into y, allocating if y is too short.
func (e *Estimator) Output(y []float64) []float64 {
	c := e.model.C
	if len(y) < len(c) {
		y = make([]float64, len(c))
	}
	for i, row := range c {
		var sum float64
		for j, v := range e.x {
			sum += row[j] * v
		}
		y[i] = sum
	}
	return y[:len(c)]
}
