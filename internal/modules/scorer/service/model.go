package service

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Model логистическая регрессия, выгруженная из обучения в JSON.
type Model struct {
	features []string
	weights  []float64
	bias     float64
}

type modelFile struct {
	Features []string  `json:"features"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

func LoadModel(path string) (*Model, error) {
	var f modelFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if len(f.Features) == 0 {
		return nil, errors.Errorf("model %s: no features", path)
	}
	if len(f.Features) != len(f.Weights) {
		return nil, errors.Errorf("model %s: %d features vs %d weights", path, len(f.Features), len(f.Weights))
	}
	return &Model{features: f.Features, weights: f.Weights, bias: f.Bias}, nil
}

func (m *Model) Features() []string {
	return append([]string(nil), m.features...)
}

// Predict ждёт ровно len(Features()) признаков.
func (m *Model) Predict(x []float64) (float64, error) {
	if len(x) != len(m.weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.weights), len(x))
	}
	z := m.bias
	for i := range x {
		z += m.weights[i] * x[i]
	}
	if math.IsNaN(z) {
		return 0, fmt.Errorf("NaN logit")
	}
	return sigmoid(z), nil
}

// sigmoid с отсечкой хвостов.
func sigmoid(x float64) float64 {
	if x > 20 {
		return 1
	}
	if x < -20 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}
