package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"signal_bot/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// pageResponse элементы разбираются по одному, чтобы битый элемент не ронял страницу.
type pageResponse struct {
	Items []json.RawMessage `json:"items"`
	Page  *pageInfo         `json:"page"`
}

type pageInfo struct {
	TotalPages int `json:"total_pages"`
	Limit      int `json:"limit"`
}

type item struct {
	Data  *itemData `json:"data"`
	Links []link    `json:"links"`
}

type link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type itemData struct {
	ResultUID    flexString    `json:"result_uid"`
	Symbol       string        `json:"symbol"`
	SymbolName   string        `json:"symbol_name"`
	Direction    *flexFloat    `json:"direction"`
	Interval     flexString    `json:"interval"`
	Pattern      string        `json:"pattern"`
	Identified   flexString    `json:"identified"`
	AnalysisText string        `json:"analysis_text"`
	Levels       *signalLevels `json:"signal_levels"`
}

type signalLevels struct {
	EntryLevel   *flexFloat `json:"entry_level"`
	StopLoss     *flexFloat `json:"stop_loss"`
	TargetLevel  *flexFloat `json:"target_level"`
	TargetPeriod flexString `json:"target_period"`
}

// flexFloat число, которое фид отдаёт то числом, то строкой.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexString строка или число, приведённое к строке.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := sonic.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// decodeItem разбирает один элемент фида. Любая ошибка бракует только его.
func decodeItem(raw json.RawMessage) (models.TradeSignal, error) {
	var it item
	if err := sonic.Unmarshal(raw, &it); err != nil {
		return models.TradeSignal{}, errors.Wrap(models.ErrInvalidSignal, err.Error())
	}
	return it.toSignal()
}

// toSignal проверяет обязательные поля. Ошибка бракует только этот элемент.
func (it item) toSignal() (models.TradeSignal, error) {
	d := it.Data
	if d == nil {
		return models.TradeSignal{}, errors.Wrap(models.ErrInvalidSignal, "no data")
	}
	id := strings.TrimSpace(string(d.ResultUID))
	if id == "" {
		return models.TradeSignal{}, errors.Wrap(models.ErrInvalidSignal, "no result_uid")
	}
	if strings.TrimSpace(d.Symbol) == "" {
		return models.TradeSignal{}, errors.Wrapf(models.ErrInvalidSignal, "%s: no symbol", id)
	}
	if d.Direction == nil {
		return models.TradeSignal{}, errors.Wrapf(models.ErrInvalidSignal, "%s: no direction", id)
	}
	if d.Levels == nil || d.Levels.EntryLevel == nil || d.Levels.StopLoss == nil {
		return models.TradeSignal{}, errors.Wrapf(models.ErrInvalidSignal, "%s: no entry/stop levels", id)
	}

	dir := models.DirectionSell
	if *d.Direction == 1 {
		dir = models.DirectionBuy
	}

	sig := models.TradeSignal{
		ID:           id,
		Symbol:       strings.TrimSpace(d.Symbol),
		SymbolName:   d.SymbolName,
		Direction:    dir,
		Timeframe:    string(d.Interval),
		Setup:        d.Pattern,
		Entry:        float64(*d.Levels.EntryLevel),
		Stop:         float64(*d.Levels.StopLoss),
		IdentifiedAt: string(d.Identified),
		Analysis:     d.AnalysisText,
		TargetPeriod: string(d.Levels.TargetPeriod),
	}
	if d.Levels.TargetLevel != nil {
		sig.Target = float64(*d.Levels.TargetLevel)
	}
	for _, l := range it.Links {
		if l.Rel == "chart-xs" {
			sig.ChartURL = l.Href
			break
		}
	}
	return sig, nil
}
