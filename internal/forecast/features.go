// Package forecast estimates the next closing price of a stock from its recent
// daily history with a random-forest regressor.
package forecast

import (
	"gonum.org/v1/gonum/stat"
)

// Observation is one trading day, oldest first in any slice passed to this
// package.
type Observation struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Window sizes for the derived features.
const (
	shortWindow  = 5
	longWindow   = 20
	volumeWindow = 5
)

// FeatureNames lists the columns produced by BuildFeatures, in order.
var FeatureNames = []string{
	"Open", "High", "Low", "Volume", "MA5", "MA20", "Volume_MA5", "Price_Change",
}

// BuildFeatures derives the feature matrix and close-price targets from obs.
// Rows whose moving averages or percent change are undefined are dropped, so
// the first longWindow-1 observations never appear in the output.
func BuildFeatures(obs []Observation) (x [][]float64, y []float64) {
	if len(obs) < longWindow {
		return nil, nil
	}

	closes := make([]float64, len(obs))
	volumes := make([]float64, len(obs))
	for i, o := range obs {
		closes[i] = o.Close
		volumes[i] = o.Volume
	}

	for i := longWindow - 1; i < len(obs); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		o := obs[i]
		x = append(x, []float64{
			o.Open,
			o.High,
			o.Low,
			o.Volume,
			stat.Mean(closes[i-shortWindow+1:i+1], nil),
			stat.Mean(closes[i-longWindow+1:i+1], nil),
			stat.Mean(volumes[i-volumeWindow+1:i+1], nil),
			(o.Close - prev) / prev,
		})
		y = append(y, o.Close)
	}
	return x, y
}
