package gaussmix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// eps is the float64 machine epsilon. It keeps the posterior finite when the
// marginal likelihood of an example underflows to zero.
const eps = 0x1p-52

// checkDims returns the number of rows of x, or a ShapeError if x does not
// have one column per model dimension.
func (m *Model) checkDims(op string, x mat.Matrix) (int, error) {
	r, c := x.Dims()
	if c != m.dim {
		return 0, &ShapeError{Op: op, What: "columns", Want: m.dim, Got: c}
	}
	return r, nil
}

// Conditional returns the N×K matrix of component densities p(x_i | z_i = k).
func (m *Model) Conditional(x mat.Matrix) (*mat.Dense, error) {
	if _, err := m.checkDims("conditional", x); err != nil {
		return nil, err
	}
	return m.conditional(x)
}

// Marginals returns the mixture likelihood p(x_i | π, μ, Σ) of every row of x.
func (m *Model) Marginals(x mat.Matrix) ([]float64, error) {
	if _, err := m.checkDims("marginals", x); err != nil {
		return nil, err
	}
	cond, err := m.conditional(x)
	if err != nil {
		return nil, err
	}
	return m.marginals(cond), nil
}

// Posterior returns the N×K responsibilities p(z_i = k | x_i). Each row sums
// to one up to rounding.
func (m *Model) Posterior(x mat.Matrix) (*mat.Dense, error) {
	if _, err := m.checkDims("posterior", x); err != nil {
		return nil, err
	}
	return m.posterior(x)
}

// LogLikelihood returns the sum of the log marginal likelihoods of the rows of x.
func (m *Model) LogLikelihood(x mat.Matrix) (float64, error) {
	if _, err := m.checkDims("log likelihood", x); err != nil {
		return 0, err
	}
	return m.logLikelihood(x)
}

func (m *Model) conditional(x mat.Matrix) (*mat.Dense, error) {
	r, _ := x.Dims()
	cond := mat.NewDense(r, m.nComp, nil)
	row := make([]float64, m.dim)
	for k := 0; k < m.nComp; k++ {
		n, ok := distmv.NewNormal(m.mu.RawRowView(k), m.sigma[k], nil)
		if !ok {
			err := &NumericalError{Component: k}
			m.logger.Error().Err(err).Int("component", k).Msg("could not evaluate component density")
			return nil, err
		}
		for i := 0; i < r; i++ {
			mat.Row(row, i, x)
			cond.Set(i, k, n.Prob(row))
		}
	}
	return cond, nil
}

func (m *Model) marginals(cond *mat.Dense) []float64 {
	r, _ := cond.Dims()
	var v mat.VecDense
	v.MulVec(cond, mat.NewVecDense(m.nComp, m.pi))
	marg := make([]float64, r)
	for i := range marg {
		marg[i] = v.AtVec(i)
	}
	return marg
}

func (m *Model) posterior(x mat.Matrix) (*mat.Dense, error) {
	cond, err := m.conditional(x)
	if err != nil {
		return nil, err
	}
	marg := m.marginals(cond)
	// TODO: normalize in log space so examples far from every component keep
	// a responsibility instead of underflowing to zero.
	for i, p := range marg {
		row := cond.RawRowView(i)
		floats.Mul(row, m.pi)
		floats.Scale(1/(p+eps), row)
	}
	return cond, nil
}

func (m *Model) logLikelihood(x mat.Matrix) (float64, error) {
	cond, err := m.conditional(x)
	if err != nil {
		return 0, err
	}
	var ll float64
	for _, p := range m.marginals(cond) {
		ll += math.Log(p)
	}
	return ll, nil
}
