package service

type loginRequest struct {
	Path     string `json:"path,omitempty"`
	Login    int64  `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
	Server   string `json:"server,omitempty"`
}

type loginResponse struct {
	Login   int64   `json:"login"`
	Server  string  `json:"server"`
	Balance float64 `json:"balance"`
}

type selectRequest struct {
	Symbol string `json:"symbol"`
	Enable bool   `json:"enable"`
}

type selectResponse struct {
	Selected bool `json:"selected"`
}

type symbolInfo struct {
	Name       string  `json:"name"`
	VolumeMin  float64 `json:"volume_min"`
	VolumeMax  float64 `json:"volume_max"`
	VolumeStep float64 `json:"volume_step"`
	Digits     int     `json:"digits"`
}

type tickResponse struct {
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
	Time int64   `json:"time"` // unix seconds
}

type calcProfitRequest struct {
	Type       int     `json:"type"`
	Symbol     string  `json:"symbol"`
	Volume     float64 `json:"volume"`
	PriceOpen  float64 `json:"price_open"`
	PriceClose float64 `json:"price_close"`
}

type calcProfitResponse struct {
	Profit *float64 `json:"profit"`
}
