package common

// Order lifecycle states as reported by the remote order service.
const (
	OrderStatusHolding = "HOLDING"
	OrderStatusExited  = "EXITED"
)

// Order types.
const (
	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"
)

// Exit moving-average types.
const (
	MATypeEMA = "EMA"
	MATypeHMA = "HMA"
)

// Initial stop-loss modes.
const (
	StopLossTrailing = "trailing"
	StopLossStatic   = "static"
)

// DisabledStopPct is the sentinel the remote service uses for a
// secondary stop or take profit that is not engaged.
const DisabledStopPct = 100
