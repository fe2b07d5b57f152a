package forecast

import (
	"gonum.org/v1/gonum/floats"
)

// MinMaxScaler rescales each column to [0, 1] using the observed range.
type MinMaxScaler struct {
	Min []float64
	Max []float64
}

// Fit records per-column minimum and maximum of x.
func (s *MinMaxScaler) Fit(x [][]float64) {
	if len(x) == 0 {
		s.Min, s.Max = nil, nil
		return
	}
	cols := len(x[0])
	s.Min = make([]float64, cols)
	s.Max = make([]float64, cols)

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		s.Min[j] = floats.Min(col)
		s.Max[j] = floats.Max(col)
	}
}

// Transform returns a scaled copy of x. Constant columns map to 0.
func (s *MinMaxScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			span := s.Max[j] - s.Min[j]
			if span != 0 {
				scaled[j] = (v - s.Min[j]) / span
			}
		}
		out[i] = scaled
	}
	return out
}

// FitTransform fits the scaler on x and returns the scaled copy.
func (s *MinMaxScaler) FitTransform(x [][]float64) [][]float64 {
	s.Fit(x)
	return s.Transform(x)
}
