package gaussmix

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// InitStrategy selects how Fit seeds the component means.
type InitStrategy string

const (
	// InitSample uses distinct rows of the training data, drawn from Src.
	InitSample InitStrategy = "sample"
	// InitKMeans uses k-means centroids of the training data. The k-means
	// implementation draws from the global math/rand state, so fits seeded
	// this way are not reproducible from Src.
	InitKMeans InitStrategy = "kmeans"
)

const (
	defaultComponents = 1
	defaultMaxIter    = 10
	defaultRegCovar   = 1e-6
)

// Config holds the settings of a Model. Zero values select the defaults
// documented on each field.
type Config struct {
	// Dim is the number of features per example. Must be set.
	Dim int `json:"dim"`
	// Components is the number of Gaussians in the mixture. Defaults to 1.
	Components int `json:"components"`
	// MaxIter is the number of EM rounds run by Fit. Defaults to 10.
	MaxIter int `json:"max_iter"`
	// RegCovar is added to the diagonal of every covariance after each
	// M-step. Defaults to 1e-6.
	RegCovar float64 `json:"reg_covar"`
	// Tol enables early stopping once an EM round improves the
	// log-likelihood by less than Tol. Zero runs all MaxIter rounds.
	Tol float64 `json:"tol"`
	// Init selects the mean initialization. Defaults to InitSample.
	Init InitStrategy `json:"init"`

	// Src is the source for all random draws of the model. If nil, a source
	// seeded from the current time is used.
	Src rand.Source `json:"-"`
	// Logger receives the fit logs. If nil, the global zerolog logger is used.
	Logger *zerolog.Logger `json:"-"`
	// Metrics, if not nil, is updated by Fit.
	Metrics *Metrics `json:"-"`
}

func (c Config) withDefaults() Config {
	if c.Components == 0 {
		c.Components = defaultComponents
	}
	if c.MaxIter == 0 {
		c.MaxIter = defaultMaxIter
	}
	if c.RegCovar == 0 {
		c.RegCovar = defaultRegCovar
	}
	if c.Init == "" {
		c.Init = InitSample
	}
	return c
}

// Validate reports settings that New would accept but that cannot produce a
// usable model.
func (c Config) Validate() error {
	switch {
	case c.Dim < 1:
		return fmt.Errorf("gaussmix: invalid dim %d", c.Dim)
	case c.Components < 0:
		return fmt.Errorf("gaussmix: invalid number of components %d", c.Components)
	case c.MaxIter < 0:
		return fmt.Errorf("gaussmix: invalid max iterations %d", c.MaxIter)
	case c.RegCovar < 0:
		return fmt.Errorf("gaussmix: invalid covariance regularization %v", c.RegCovar)
	case c.Tol < 0:
		return fmt.Errorf("gaussmix: invalid tolerance %v", c.Tol)
	}
	switch c.Init {
	case "", InitSample, InitKMeans:
		return nil
	default:
		return fmt.Errorf("gaussmix: unknown init strategy %q", c.Init)
	}
}

// ReadConfig decodes a JSON config and validates it.
func ReadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the JSON config stored at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open config %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("could not load config %s: %w", path, err)
	}
	return cfg, nil
}
