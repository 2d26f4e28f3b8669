package scale

import (
	"fmt"
	"math"
)

// StandardScaler centers each column to zero mean and unit variance.
// Zero-variance columns are centered only.
type StandardScaler struct {
	Means  []float64 `json:"means"`
	Stddev []float64 `json:"stddev"`
}

func (s *StandardScaler) Fit(samples [][]float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to fit")
	}
	cols := len(samples[0])
	s.Means = make([]float64, cols)
	s.Stddev = make([]float64, cols)

	for _, row := range samples {
		if len(row) != cols {
			return fmt.Errorf("ragged sample: %d columns, expected %d", len(row), cols)
		}
		for j, v := range row {
			s.Means[j] += v
		}
	}
	n := float64(len(samples))
	for j := range s.Means {
		s.Means[j] /= n
	}

	for _, row := range samples {
		for j, v := range row {
			d := v - s.Means[j]
			s.Stddev[j] += d * d
		}
	}
	for j := range s.Stddev {
		s.Stddev[j] = math.Sqrt(s.Stddev[j] / n)
	}
	return nil
}

// Transform scales each row in place-safe fashion and returns new slices.
func (s *StandardScaler) Transform(samples [][]float64) ([][]float64, error) {
	out := make([][]float64, len(samples))
	for i, row := range samples {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("sample %d has %d columns, scaler fitted on %d", i, len(row), len(s.Means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = v - s.Means[j]
			if s.Stddev[j] > 0 {
				scaled[j] /= s.Stddev[j]
			}
		}
		out[i] = scaled
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(samples [][]float64) ([][]float64, error) {
	if err := s.Fit(samples); err != nil {
		return nil, err
	}
	return s.Transform(samples)
}
