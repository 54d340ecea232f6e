package gaussmix_test

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/btracey/gaussmix"
)

func ExampleModel_Fit() {
	src := rand.NewSource(0)
	// First, construct a base Gaussian mixture.
	m1 := []float64{10, 20}
	s1 := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 2})
	n1, _ := distmv.NewNormal(m1, s1, src)
	m2 := []float64{-10, -20}
	s2 := mat.NewSymDense(2, []float64{4, 0.2, 0.2, 0.5})
	n2, _ := distmv.NewNormal(m2, s2, src)
	m3 := []float64{-20, 30}
	s3 := mat.NewSymDense(2, []float64{0.5, -0.3, -0.3, 0.4})
	n3, _ := distmv.NewNormal(m3, s3, src)
	compWeights := []float64{0.5, 0.3, 0.2}
	cat := distuv.NewCategorical(compWeights, src)
	dists := []*distmv.Normal{n1, n2, n3}

	// Sample the mixture to generate a dataset, keeping the true component
	// as the label.
	nSamples := 5000
	xs := mat.NewDense(nSamples, 2, nil)
	ys := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		idx := int(cat.Rand())
		dists[idx].Rand(xs.RawRowView(i))
		ys[i] = float64(idx)
	}

	// Fit the mixture model.
	logger := zerolog.Nop()
	gmm := gaussmix.New(gaussmix.Config{
		Dim:        2,
		Components: 3,
		MaxIter:    50,
		Tol:        1e-6,
		Src:        src,
		Logger:     &logger,
	})
	if err := gmm.Fit(xs); err != nil {
		fmt.Println("fit:", err)
		return
	}

	// An EM algorithm may permute the components, so map them back to the
	// true labels before scoring.
	if err := gmm.SupervisedFit(xs, ys); err != nil {
		fmt.Println("supervised fit:", err)
		return
	}
	pred, err := gmm.SupervisedPredict(xs)
	if err != nil {
		fmt.Println("supervised predict:", err)
		return
	}
	acc, _ := gaussmix.Accuracy(ys, pred)

	fmt.Println("True Distribution:")
	fmt.Printf("Weights: %v     %v      %v\n", compWeights[0], compWeights[1], compWeights[2])
	fmt.Printf("Means  : %v %v %v\n", m1, m2, m3)
	fmt.Println("")
	fmt.Println("Discovered Distribution")
	fmt.Printf("Weights : %0.2v\n", gmm.Weights())
	fmt.Printf("Means   : %0.2v\n", mat.Formatted(gmm.Means(), mat.Prefix("          ")))
	for k, s := range gmm.Covariances() {
		fmt.Printf("Sigma%d  : %0.2v\n", k+1, mat.Formatted(s, mat.Prefix("          ")))
	}
	fmt.Printf("Accuracy: %0.3v\n", acc)
}
