package gaussmix

import (
	"fmt"
	"io/ioutil"
	"math"

	"github.com/cdipaolo/goml/cluster"
	"github.com/google/uuid"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// kmeansIter bounds the k-means rounds of InitKMeans.
const kmeansIter = 100

// Fit runs EM on x, an N×D matrix of examples. The means are first reset
// from the data as selected by the init strategy, then MaxIter rounds of
// E-step and M-step are run. If Tol is set, the loop stops early once a
// round improves the log-likelihood by less than Tol.
//
// A failed round leaves the model with the parameters of the last completed
// M-step.
func (m *Model) Fit(x mat.Matrix) error {
	n, err := m.checkDims("fit", x)
	if err != nil {
		m.metrics.failed(err)
		return err
	}
	logger := m.logger.With().
		Str("run", uuid.New().String()).
		Int("samples", n).
		Int("components", m.nComp).
		Logger()

	if err := m.initMeans(x, n); err != nil {
		m.metrics.failed(err)
		return err
	}

	track := m.tol > 0 || m.metrics != nil
	ll := math.Inf(-1)
	iter := 0
	for iter < m.maxIter {
		z, err := m.eStep(x)
		if err != nil {
			m.metrics.failed(err)
			return fmt.Errorf("e-step %d: %w", iter, err)
		}
		if err := m.mStep(x, z); err != nil {
			m.metrics.failed(err)
			logger.Error().Err(err).Int("iter", iter).Msg("could not update parameters")
			return fmt.Errorf("m-step %d: %w", iter, err)
		}
		iter++
		m.metrics.iteration()
		if !track {
			logger.Debug().Int("iter", iter).Msg("em round")
			continue
		}

		prev := ll
		ll, err = m.logLikelihood(x)
		if err != nil {
			m.metrics.failed(err)
			return fmt.Errorf("log likelihood %d: %w", iter, err)
		}
		logger.Debug().Int("iter", iter).Float64("log_likelihood", ll).Msg("em round")
		if m.tol > 0 && ll-prev < m.tol {
			break
		}
	}

	m.metrics.fitted(ll)
	logger.Info().Int("iterations", iter).Msg("mixture fitted")
	return nil
}

// initMeans resets the component means from the rows of x.
func (m *Model) initMeans(x mat.Matrix, n int) error {
	if n < m.nComp {
		return fmt.Errorf("%w: %d samples for %d components", ErrTooFewSamples, n, m.nComp)
	}
	if m.init == InitKMeans {
		return m.initKMeans(x, n)
	}
	for k, i := range m.rnd.Perm(n)[:m.nComp] {
		mat.Row(m.mu.RawRowView(k), i, x)
	}
	return nil
}

func (m *Model) initKMeans(x mat.Matrix, n int) error {
	data := make([][]float64, n)
	for i := range data {
		data[i] = mat.Row(nil, i, x)
	}
	km := cluster.NewKMeans(m.nComp, kmeansIter, data)
	km.Output = ioutil.Discard
	if err := km.Learn(); err != nil {
		return fmt.Errorf("could not seed means with k-means: %w", err)
	}
	if len(km.Centroids) != m.nComp {
		return fmt.Errorf("could not seed means with k-means: got %d centroids for %d components", len(km.Centroids), m.nComp)
	}
	for k, c := range km.Centroids {
		m.mu.SetRow(k, c)
	}
	return nil
}

// eStep returns the responsibilities of the current parameters.
func (m *Model) eStep(x mat.Matrix) (*mat.Dense, error) {
	return m.posterior(x)
}

// mStep re-estimates the weights, means and covariances in place from the
// responsibilities z. All means are updated before any covariance, which is
// centered on the new mean of its component.
func (m *Model) mStep(x mat.Matrix, z *mat.Dense) error {
	n, _ := x.Dims()

	// Responsibility mass per component. Checked before anything is written.
	mass := make([]float64, m.nComp)
	col := make([]float64, n)
	for k := range mass {
		mat.Col(col, k, z)
		mass[k] = floats.Sum(col)
		if mass[k] == 0 || math.IsNaN(mass[k]) {
			return &EmptyComponentError{Component: k, Mass: mass[k]}
		}
	}

	for k, nk := range mass {
		m.pi[k] = nk / float64(n)
	}

	m.mu.Mul(z.T(), x)
	for k, nk := range mass {
		floats.Scale(1/nk, m.mu.RawRowView(k))
	}

	// Rows of centered are (x_i - μ_k) scaled by sqrt(z_ik), so that
	// centeredᵀ·centered is the weighted scatter of component k.
	centered := mat.NewDense(n, m.dim, nil)
	for k, nk := range mass {
		mu := m.mu.RawRowView(k)
		for i := 0; i < n; i++ {
			row := centered.RawRowView(i)
			mat.Row(row, i, x)
			floats.Sub(row, mu)
			floats.Scale(math.Sqrt(z.At(i, k)), row)
		}
		sigma := m.sigma[k]
		sigma.SymOuterK(1/nk, centered.T())
		for j := 0; j < m.dim; j++ {
			sigma.SetSym(j, j, sigma.At(j, j)+m.regCovar)
		}
	}
	return nil
}
