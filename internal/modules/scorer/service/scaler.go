package service

import (
	"github.com/pkg/errors"
)

// StandardScaler (x - mean) / scale по колонкам, известным на обучении.
type StandardScaler struct {
	index map[string]int
	mean  []float64
	scale []float64
}

type scalerFile struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

func LoadScaler(path string) (*StandardScaler, error) {
	var f scalerFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if len(f.Columns) != len(f.Mean) || len(f.Columns) != len(f.Scale) {
		return nil, errors.Errorf("scaler %s: columns/mean/scale length mismatch", path)
	}

	s := &StandardScaler{
		index: make(map[string]int, len(f.Columns)),
		mean:  f.Mean,
		scale: f.Scale,
	}
	for i, c := range f.Columns {
		s.index[c] = i
	}
	return s, nil
}

// Transform колонки, которых скейлер не знает, считаются ошибкой.
func (s *StandardScaler) Transform(columns []string, values []float64) ([]float64, error) {
	if len(columns) != len(values) {
		return nil, errors.Errorf("%d columns vs %d values", len(columns), len(values))
	}
	out := make([]float64, len(values))
	for i, c := range columns {
		j, ok := s.index[c]
		if !ok {
			return nil, errors.Errorf("scaler has no column %q", c)
		}
		sc := s.scale[j]
		if sc == 0 {
			sc = 1
		}
		out[i] = (values[i] - s.mean[j]) / sc
	}
	return out, nil
}
