package models

import "github.com/pkg/errors"

// Виды ошибок ядра. Проверяются через errors.Is, оборачиваются errors.Wrap.
var (
	ErrSizingInfeasible  = errors.New("sizing infeasible")
	ErrSymbolUnavailable = errors.New("symbol unavailable")
	ErrBrokerRejected    = errors.New("broker rejected request")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrFeedPage          = errors.New("feed page failed")
	ErrInvalidSignal     = errors.New("invalid signal")
)
