package forecast

import (
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when there are too few observations to
// train on.
var ErrInsufficientData = errors.New("insufficient data for prediction")

// Config controls the prediction run.
type Config struct {
	MinObservations int
	Trees           int
	TestFraction    float64
	Seed            uint64
}

// DefaultConfig returns the settings used by the API.
func DefaultConfig() Config {
	return Config{
		MinObservations: 30,
		Trees:           100,
		TestFraction:    0.2,
		Seed:            42,
	}
}

// Result is the outcome of a prediction run.
type Result struct {
	Price     float64
	Accuracy  float64
	TrainSize int
	TestSize  int
}

// Predictor trains a fresh forest for every call. It holds no state between
// calls and is safe for concurrent use.
type Predictor struct {
	cfg Config
}

// NewPredictor creates a predictor with cfg.
func NewPredictor(cfg Config) *Predictor {
	return &Predictor{cfg: cfg}
}

// Predict estimates the next close from obs (oldest first). Accuracy is the
// R² of the forest on a shuffled hold-out split. The scaler sees every row,
// hold-out included, and the split ignores time order, so Accuracy overstates
// how well the model forecasts.
func (p *Predictor) Predict(obs []Observation) (*Result, error) {
	if len(obs) < p.cfg.MinObservations {
		return nil, ErrInsufficientData
	}

	x, y := BuildFeatures(obs)
	if len(y) < 2 {
		return nil, ErrInsufficientData
	}

	var scaler MinMaxScaler
	scaled := scaler.FitTransform(x)

	rng := rand.New(rand.NewPCG(p.cfg.Seed, p.cfg.Seed))
	train, test := splitIndices(len(y), p.cfg.TestFraction, rng)

	forest := NewForest(p.cfg.Trees)
	forest.Fit(rows(scaled, train), values(y, train), rng)

	accuracy := RSquared(forest.PredictAll(rows(scaled, test)), values(y, test))
	price := forest.Predict(scaled[len(scaled)-1])

	return &Result{
		Price:     price,
		Accuracy:  accuracy,
		TrainSize: len(train),
		TestSize:  len(test),
	}, nil
}

// splitIndices shuffles 0..n-1 and takes ceil(n*testFraction) of them as the
// test set. Both sides get at least one row when n >= 2.
func splitIndices(n int, testFraction float64, rng *rand.Rand) (train, test []int) {
	perm := rng.Perm(n)
	nTest := int(math.Ceil(float64(n) * testFraction))
	nTest = max(1, min(nTest, n-1))
	return perm[nTest:], perm[:nTest]
}

// RSquared returns the coefficient of determination of estimates against
// actual. A constant actual series scores 1 when matched exactly and 0
// otherwise.
func RSquared(estimates, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	mean := stat.Mean(actual, nil)
	centered := make([]float64, len(actual))
	copy(centered, actual)
	floats.AddConst(-mean, centered)
	ssTot := floats.Dot(centered, centered)
	if ssTot == 0 {
		if floats.EqualApprox(estimates, actual, 1e-9) {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(estimates, actual, nil)
}

func rows(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, k := range idx {
		out[i] = x[k]
	}
	return out
}

func values(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, k := range idx {
		out[i] = y[k]
	}
	return out
}
