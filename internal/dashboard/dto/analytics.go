package dto

// ProfitPoint is one per-trade row of the profit-over-trades series.
// Trade is the 1-based position in exit-time order.
type ProfitPoint struct {
	Trade            int     `json:"trade"`
	ProfitWithoutFee float64 `json:"profitWithoutFee"`
	ProfitWithFee    float64 `json:"profitWithFee"`
	Symbol           string  `json:"symbol"`
}

// RunningProfitPoint is one row of the cumulative profit series; both
// sums are rounded to two decimals at every prefix.
type RunningProfitPoint struct {
	Trade                      int     `json:"trade"`
	CumulativeProfitWithoutFee float64 `json:"cumulativeProfitWithoutFee"`
	CumulativeProfitWithFee    float64 `json:"cumulativeProfitWithFee"`
}

// TotalReturnPoint is one row of the bankroll return curve. Trade is the
// 0-based step counted from the most recent trade backward; the series
// is deliberately not in chronological order.
type TotalReturnPoint struct {
	Trade                    int     `json:"trade"`
	TotalReturnPctWithoutFee float64 `json:"totalReturnPercentageWithoutFee"`
	TotalReturnPctWithFee    float64 `json:"totalReturnPercentageWithFee"`
	Symbol                   string  `json:"symbol"`
}

// DistributionBucket is one fixed histogram bucket of the profit
// distribution, counted independently for both fee variants.
type DistributionBucket struct {
	Range           string `json:"range"`
	CountWithoutFee int    `json:"countWithoutFee"`
	CountWithFee    int    `json:"countWithFee"`
}

// HoldingTimePoint is one row of the holding-time-vs-profit scatter.
type HoldingTimePoint struct {
	HoldingTime      float64 `json:"holdingTime"`
	ProfitWithoutFee float64 `json:"profitWithoutFee"`
	ProfitWithFee    float64 `json:"profitWithFee"`
	Symbol           string  `json:"symbol"`
}

// SymbolProfit is the summed profit for one distinct symbol.
type SymbolProfit struct {
	Symbol           string  `json:"symbol"`
	ProfitWithoutFee float64 `json:"profitWithoutFee"`
	ProfitWithFee    float64 `json:"profitWithFee"`
}

// StopLossProfit is the mean profit across one stop-loss bucket.
type StopLossProfit struct {
	Type             string  `json:"type"`
	ProfitWithoutFee float64 `json:"profitWithoutFee"`
	ProfitWithFee    float64 `json:"profitWithFee"`
}

// WinLossRatio counts trades whose fee-adjusted profit is non-negative
// against the rest.
type WinLossRatio struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// AnalyticsReport bundles every derived series for one
// (completedOrders, fee) input. All series are disposable and recomputed
// on every request.
type AnalyticsReport struct {
	Fee                  float64              `json:"fee"`
	ProfitData           []ProfitPoint        `json:"profitData"`
	RunningProfitData    []RunningProfitPoint `json:"runningProfitData"`
	TotalReturnData      []TotalReturnPoint   `json:"totalReturnData"`
	DistributionData     []DistributionBucket `json:"distributionData"`
	HoldingTimeData      []HoldingTimePoint   `json:"holdingTimeData"`
	ProfitBySymbolData   []SymbolProfit       `json:"profitBySymbolData"`
	ProfitByStopLossType []StopLossProfit     `json:"profitByStopLossType"`
	WinLossData          WinLossRatio         `json:"winLossData"`
}
