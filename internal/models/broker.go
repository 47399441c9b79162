package models

import "time"

// SymbolConstraints ограничения брокера по объёму для символа.
type SymbolConstraints struct {
	Symbol  string
	MinLot  float64
	MaxLot  float64
	LotStep float64
	Digits  int
}

// Valid проверяет, что шаг/минимум/максимум пригодны для сайзинга.
func (c SymbolConstraints) Valid() bool {
	return c.MinLot > 0 && c.MaxLot > 0 && c.LotStep > 0 && c.MaxLot >= c.MinLot
}

// Tick текущая котировка.
type Tick struct {
	Symbol string
	Bid    float64
	Ask    float64
	Time   time.Time
}

// Price цена, по которой реально можно войти: ask для покупки, bid для продажи.
func (t Tick) Price(d Direction) float64 {
	if d == DirectionSell {
		return t.Bid
	}
	return t.Ask
}

// Константы MetaTrader 5, как их ждёт бридж.
type OrderType int

const (
	OrderTypeBuy       OrderType = 0
	OrderTypeSell      OrderType = 1
	OrderTypeBuyLimit  OrderType = 2
	OrderTypeSellLimit OrderType = 3
	OrderTypeBuyStop   OrderType = 4
	OrderTypeSellStop  OrderType = 5
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeBuy:
		return "buy"
	case OrderTypeSell:
		return "sell"
	case OrderTypeBuyLimit:
		return "buy_limit"
	case OrderTypeSellLimit:
		return "sell_limit"
	case OrderTypeBuyStop:
		return "buy_stop"
	case OrderTypeSellStop:
		return "sell_stop"
	}
	return "unknown"
}

// MarketOrderType тип рыночного ордера по направлению.
func MarketOrderType(d Direction) OrderType {
	if d == DirectionSell {
		return OrderTypeSell
	}
	return OrderTypeBuy
}

type FillingMode int

const (
	FillingFOK    FillingMode = 0
	FillingIOC    FillingMode = 1
	FillingReturn FillingMode = 2
)

func (m FillingMode) String() string {
	switch m {
	case FillingFOK:
		return "fok"
	case FillingIOC:
		return "ioc"
	case FillingReturn:
		return "return"
	}
	return "unknown"
}

type TradeAction int

const (
	TradeActionDeal    TradeAction = 1
	TradeActionPending TradeAction = 5
)

const (
	OrderTimeGTC = 0

	// RetcodeDone TRADE_RETCODE_DONE
	RetcodeDone = 10009
)

// OrderRequest запрос order_send.
type OrderRequest struct {
	Action      TradeAction `json:"action"`
	Symbol      string      `json:"symbol"`
	Volume      float64     `json:"volume"`
	Type        OrderType   `json:"type"`
	Price       float64     `json:"price"`
	SL          float64     `json:"sl"`
	TP          float64     `json:"tp"`
	Deviation   int         `json:"deviation"`
	Magic       int64       `json:"magic"`
	TypeTime    int         `json:"type_time"`
	TypeFilling FillingMode `json:"type_filling"`
	Comment     string      `json:"comment"`
}

// OrderResult ответ order_send.
type OrderResult struct {
	Retcode int    `json:"retcode"`
	Order   uint64 `json:"order"`
	Deal    uint64 `json:"deal"`
	Comment string `json:"comment"`
}

// Done retcode TRADE_RETCODE_DONE.
func (r OrderResult) Done() bool { return r.Retcode == RetcodeDone }
