package gaussmix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	type test struct {
		input string
		cfg   Config
		err   bool
	}

	tests := map[string]test{
		"full": {
			input: `{"dim": 4, "components": 3, "max_iter": 25, "reg_covar": 0.001, "tol": 0.01, "init": "kmeans"}`,
			cfg:   Config{Dim: 4, Components: 3, MaxIter: 25, RegCovar: 0.001, Tol: 0.01, Init: InitKMeans},
		},
		"defaults": {
			input: `{"dim": 2}`,
			cfg:   Config{Dim: 2},
		},
		"unknown field": {
			input: `{"dim": 2, "seed": 4}`,
			err:   true,
		},
		"missing dim": {
			input: `{"components": 2}`,
			err:   true,
		},
		"negative reg": {
			input: `{"dim": 2, "reg_covar": -1}`,
			err:   true,
		},
		"unknown init": {
			input: `{"dim": 2, "init": "random"}`,
			err:   true,
		},
		"malformed": {
			input: `{"dim": `,
			err:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := ReadConfig(strings.NewReader(tt.input))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmm.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dim": 3, "components": 2}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Dim: 3, Components: 2}, cfg)

	m := New(quietConfig(cfg))
	dim, comp := m.Dims()
	assert.Equal(t, 3, dim)
	assert.Equal(t, 2, comp)
	assert.Equal(t, defaultMaxIter, m.maxIter)
	assert.Equal(t, defaultRegCovar, m.regCovar)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
