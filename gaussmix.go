// Package gaussmix fits Gaussian mixture models to unlabeled data with the
// expectation-maximization algorithm, and maps the learned clusters to
// external labels for supervised evaluation.
//
// A Model is not safe for concurrent use. Fit and SupervisedFit mutate the
// model, and callers must serialize them with any other call on the same Model.
package gaussmix

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// initialVariance is the diagonal of every covariance before the first fit.
const initialVariance = 100

// Model is a Gaussian mixture with K components in D dimensions.
type Model struct {
	dim      int
	nComp    int
	maxIter  int
	regCovar float64
	tol      float64
	init     InitStrategy

	src     rand.Source
	rnd     *rand.Rand
	logger  zerolog.Logger
	metrics *Metrics

	pi    []float64       // K mixture weights
	mu    *mat.Dense      // K×D means
	sigma []*mat.SymDense // K D×D covariances

	// labels maps a component to an external label. nil until SupervisedFit.
	labels []float64
}

// New returns a model with random means in [0,1)^D, random unnormalized
// weights and covariances of 100·I. The sizes in cfg are not validated; see
// Config.Validate.
func New(cfg Config) *Model {
	cfg = cfg.withDefaults()
	src := cfg.Src
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	m := &Model{
		dim:      cfg.Dim,
		nComp:    cfg.Components,
		maxIter:  cfg.MaxIter,
		regCovar: cfg.RegCovar,
		tol:      cfg.Tol,
		init:     cfg.Init,
		src:      src,
		rnd:      rand.New(src),
		logger:   logger,
		metrics:  cfg.Metrics,
	}

	m.mu = mat.NewDense(m.nComp, m.dim, nil)
	for k := 0; k < m.nComp; k++ {
		m.uniform(m.mu.RawRowView(k))
	}
	m.pi = make([]float64, m.nComp)
	m.uniform(m.pi)
	m.sigma = make([]*mat.SymDense, m.nComp)
	for k := range m.sigma {
		m.sigma[k] = mat.NewSymDense(m.dim, nil)
		for i := 0; i < m.dim; i++ {
			m.sigma[k].SetSym(i, i, initialVariance)
		}
	}
	return m
}

// uniform fills dst with draws from U[0,1).
func (m *Model) uniform(dst []float64) {
	u := distuv.Uniform{Min: 0, Max: 1, Src: m.src}
	for i := range dst {
		dst[i] = u.Rand()
	}
}

// Dims returns the feature dimension and the number of components.
func (m *Model) Dims() (dim, components int) {
	return m.dim, m.nComp
}

// Weights returns a copy of the mixture weights.
func (m *Model) Weights() []float64 {
	w := make([]float64, len(m.pi))
	copy(w, m.pi)
	return w
}

// Means returns a copy of the component means, one row per component.
func (m *Model) Means() *mat.Dense {
	return mat.DenseCopyOf(m.mu)
}

// Covariances returns a copy of the component covariances.
func (m *Model) Covariances() []*mat.SymDense {
	c := make([]*mat.SymDense, len(m.sigma))
	for k, s := range m.sigma {
		c[k] = mat.NewSymDense(m.dim, nil)
		c[k].CopySym(s)
	}
	return c
}

// Labels returns a copy of the component to label map, or nil if
// SupervisedFit has not been called.
func (m *Model) Labels() []float64 {
	if m.labels == nil {
		return nil
	}
	l := make([]float64, len(m.labels))
	copy(l, m.labels)
	return l
}
