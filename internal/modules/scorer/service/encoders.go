package service

import (
	"signal_bot/internal/models"

	"github.com/pkg/errors"
)

// LabelEncoders column -> value -> code, как у LabelEncoder при обучении.
type LabelEncoders struct {
	classes map[string]map[string]float64
}

func LoadEncoders(path string) (*LabelEncoders, error) {
	var m map[string]map[string]float64
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, errors.Errorf("encoders %s: empty", path)
	}
	return &LabelEncoders{classes: m}, nil
}

func (e *LabelEncoders) Encode(column, value string) (float64, error) {
	classes, ok := e.classes[column]
	if !ok {
		return 0, errors.Wrapf(models.ErrUnknownCategory, "no encoder for column %q", column)
	}
	code, ok := classes[value]
	if !ok {
		return 0, errors.Wrapf(models.ErrUnknownCategory, "%s=%q", column, value)
	}
	return code, nil
}
