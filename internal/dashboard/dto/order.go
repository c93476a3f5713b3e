package dto

import (
	"fmt"

	"stock-order-dashboard/pkg/common"
)

// ValidationError marks a draft rejected before it reached the remote
// service, so handlers can answer 400 instead of 502.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// OrderDraft is the request body for creating or updating an order. The
// entry price is optional: market orders let the remote service fill it
// from the latest quote.
type OrderDraft struct {
	Symbol         string   `json:"symbol"`
	Status         string   `json:"status,omitempty"`
	OrderType      string   `json:"orderType"`
	EntryPrice     *float64 `json:"entryPrice"`
	MAType         string   `json:"maType"`
	Period         int      `json:"period"`
	InitialSL      string   `json:"initialSL"`
	InitialSLPct   float64  `json:"initialSLPct"`
	SecondarySL    bool     `json:"secondarySL,omitempty"`
	SecondarySLPct float64  `json:"secondarySLPct"`
	TakeProfitPct  float64  `json:"takeProfitPct"`
}

// Normalize applies the disabled-stop sentinel when the secondary stop
// feature is not engaged.
func (d *OrderDraft) Normalize() {
	if !d.SecondarySL {
		d.SecondarySLPct = common.DisabledStopPct
		d.TakeProfitPct = common.DisabledStopPct
	}
}

// Validate checks the fields the remote service requires.
func (d *OrderDraft) Validate() error {
	if d.Symbol == "" {
		return validationErrorf("symbol is required")
	}
	if d.OrderType != common.OrderTypeMarket && d.OrderType != common.OrderTypeLimit {
		return validationErrorf("orderType must be %q or %q", common.OrderTypeMarket, common.OrderTypeLimit)
	}
	if d.OrderType == common.OrderTypeLimit && (d.EntryPrice == nil || *d.EntryPrice <= 0) {
		return validationErrorf("limit orders require a positive entry price")
	}
	if d.MAType != common.MATypeEMA && d.MAType != common.MATypeHMA {
		return validationErrorf("maType must be %q or %q", common.MATypeEMA, common.MATypeHMA)
	}
	if d.Period <= 0 {
		return validationErrorf("period must be a positive integer")
	}
	if d.InitialSL != common.StopLossTrailing && d.InitialSL != common.StopLossStatic {
		return validationErrorf("initialSL must be %q or %q", common.StopLossTrailing, common.StopLossStatic)
	}
	return nil
}
