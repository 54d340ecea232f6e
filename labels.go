package gaussmix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Predict returns the most responsible component of every row of x. Ties go
// to the lowest component index.
func (m *Model) Predict(x mat.Matrix) ([]int, error) {
	if _, err := m.checkDims("predict", x); err != nil {
		return nil, err
	}
	return m.assign(x)
}

func (m *Model) assign(x mat.Matrix) ([]int, error) {
	z, err := m.posterior(x)
	if err != nil {
		return nil, err
	}
	r, _ := z.Dims()
	comp := make([]int, r)
	for i := range comp {
		comp[i] = floats.MaxIdx(z.RawRowView(i))
	}
	return comp, nil
}

// SupervisedFit maps every component to the most common label y_i among the
// rows of x assigned to it, the smallest such label on ties. The previous map
// is discarded. A component with no assigned rows keeps a random placeholder
// label drawn from U[0,1).
func (m *Model) SupervisedFit(x mat.Matrix, y []float64) error {
	r, err := m.checkDims("supervised fit", x)
	if err != nil {
		return err
	}
	if len(y) != r {
		return &ShapeError{Op: "supervised fit", What: "labels", Want: r, Got: len(y)}
	}
	comp, err := m.assign(x)
	if err != nil {
		return err
	}

	counts := make([]map[float64]int, m.nComp)
	for i, k := range comp {
		if counts[k] == nil {
			counts[k] = make(map[float64]int)
		}
		counts[k][y[i]]++
	}

	labels := make([]float64, m.nComp)
	m.uniform(labels)
	for k, c := range counts {
		if c == nil {
			m.logger.Debug().Int("component", k).Float64("label", labels[k]).Msg("no examples assigned, keeping placeholder label")
			continue
		}
		labels[k] = mode(c)
	}
	m.labels = labels
	return nil
}

// SupervisedPredict returns the mapped label of the most responsible
// component of every row of x. It returns ErrNotFitted if SupervisedFit has
// not been called.
func (m *Model) SupervisedPredict(x mat.Matrix) ([]float64, error) {
	if m.labels == nil {
		return nil, ErrNotFitted
	}
	if _, err := m.checkDims("supervised predict", x); err != nil {
		return nil, err
	}
	comp, err := m.assign(x)
	if err != nil {
		return nil, err
	}
	y := make([]float64, len(comp))
	for i, k := range comp {
		y[i] = m.labels[k]
	}
	return y, nil
}

// Accuracy returns the fraction of positions where want and got hold the
// same label. It is zero for empty input.
func Accuracy(want, got []float64) (float64, error) {
	if len(want) != len(got) {
		return 0, &ShapeError{Op: "accuracy", What: "labels", Want: len(want), Got: len(got)}
	}
	if len(want) == 0 {
		return 0, nil
	}
	var hit int
	for i, v := range want {
		if got[i] == v {
			hit++
		}
	}
	return float64(hit) / float64(len(want)), nil
}

func mode(counts map[float64]int) float64 {
	var (
		best  float64
		count int
	)
	for v, c := range counts {
		if c > count || (c == count && v < best) {
			best, count = v, c
		}
	}
	return best
}
