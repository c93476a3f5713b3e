package entity

import (
	"time"

	"stock-order-dashboard/pkg/common"
)

// Order is one tracked position as reported by the remote order service.
// Symbol is the unique key within the active+completed set at any instant.
type Order struct {
	Symbol         string     `json:"symbol"`
	Status         string     `json:"status"`
	OrderType      string     `json:"orderType"`
	EntryPrice     float64    `json:"entryPrice"`
	CurrentPrice   float64    `json:"currentPrice"`
	Profit         float64    `json:"profit"`
	EntryDatetime  time.Time  `json:"entryDatetime"`
	ExitDatetime   *time.Time `json:"exitDatetime,omitempty"`
	MAType         string     `json:"maType"`
	Period         int        `json:"period"`
	InitialSL      string     `json:"initialSL"`
	InitialSLPct   float64    `json:"initialSLPct"`
	SecondarySLPct float64    `json:"secondarySLPct"`
	TakeProfitPct  float64    `json:"takeProfitPct"`
	ExitReason     string     `json:"exitReason,omitempty"`
}

// Exited reports whether the order reached its terminal state.
func (o Order) Exited() bool {
	return o.Status == common.OrderStatusExited
}

// TrailingStop reports whether the initial stop-loss trails the price.
func (o Order) TrailingStop() bool {
	return o.InitialSL == common.StopLossTrailing
}

// HoldingTimeHours is the wall-clock duration between entry and exit in
// hours. Zero for orders that have not exited.
func (o Order) HoldingTimeHours() float64 {
	if o.ExitDatetime == nil {
		return 0
	}
	return o.ExitDatetime.Sub(o.EntryDatetime).Hours()
}
