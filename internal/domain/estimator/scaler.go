package estimator

import "fmt"

// StandardScaler computes (x - mean) / scale per column. A zero scale is
// treated as 1, matching how constant columns are fit.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if err := checkParams(mean, scale); err != nil {
		return nil, err
	}
	s := &StandardScaler{mean: append([]float64(nil), mean...), scale: append([]float64(nil), scale...)}
	for i, v := range s.scale {
		if v == 0 {
			s.scale[i] = 1
		}
	}
	return s, nil
}

func (s *StandardScaler) Kind() string { return "standard" }
func (s *StandardScaler) Width() int   { return len(s.mean) }

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(len(x), len(s.mean)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// MinMaxScaler computes x*scale + min per column.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

func NewMinMaxScaler(minimum, scale []float64) (*MinMaxScaler, error) {
	if err := checkParams(minimum, scale); err != nil {
		return nil, err
	}
	return &MinMaxScaler{min: append([]float64(nil), minimum...), scale: append([]float64(nil), scale...)}, nil
}

func (s *MinMaxScaler) Kind() string { return "minmax" }
func (s *MinMaxScaler) Width() int   { return len(s.min) }

func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(len(x), len(s.min)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*s.scale[i] + s.min[i]
	}
	return out, nil
}

func checkParams(offset, scale []float64) error {
	if len(offset) == 0 {
		return fmt.Errorf("%w: scaler has no columns", ErrInvalidEstimator)
	}
	if len(offset) != len(scale) {
		return fmt.Errorf("%w: scaler has %d offsets and %d scales", ErrInvalidEstimator, len(offset), len(scale))
	}
	if !allFinite(offset) || !allFinite(scale) {
		return fmt.Errorf("%w: scaler parameters must be finite", ErrInvalidEstimator)
	}
	return nil
}
