package scoring

// Scorer внешняя модель: вектор признаков в порядке Features() => вероятность успеха.
type Scorer interface {
	Features() []string
	Predict(vector []float64) (float64, error)
}

// CategoricalEncoder кодирует категорию в число. Незнакомое значение => models.ErrUnknownCategory.
type CategoricalEncoder interface {
	Encode(column, value string) (float64, error)
}

// NumericScaler нормализует числовые колонки так же, как при обучении.
type NumericScaler interface {
	Transform(columns []string, values []float64) ([]float64, error)
}
