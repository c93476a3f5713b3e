package service

import (
	"sort"
	"time"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/common"
	"stock-order-dashboard/pkg/utils"
)

// bankroll is the fixed notional divided equally across all completed
// trades for the total-return curve.
const bankroll = 1000.0

// AnalyticsService derives the chart series from a snapshot of
// completed orders. Pure and deterministic given (orders, fee); every
// call recomputes the full report.
type AnalyticsService interface {
	BuildReport(completed []entity.Order, fee float64) dto.AnalyticsReport
}

type analyticsService struct{}

// NewAnalyticsService creates the analytics engine.
func NewAnalyticsService() AnalyticsService {
	return &analyticsService{}
}

func (s *analyticsService) BuildReport(completed []entity.Order, fee float64) dto.AnalyticsReport {
	report := dto.AnalyticsReport{Fee: fee}
	if len(completed) == 0 {
		return report
	}

	sorted := sortByExitAscending(completed)

	report.ProfitData = profitSeries(sorted, fee)
	report.RunningProfitData = runningProfitSeries(sorted, fee)
	report.TotalReturnData = totalReturnSeries(sorted, fee)
	report.DistributionData = distributionSeries(sorted, fee)
	report.HoldingTimeData = holdingTimeSeries(sorted, fee)
	report.ProfitBySymbolData = profitBySymbolSeries(sorted, fee)
	report.ProfitByStopLossType = profitByStopLossSeries(sorted, fee)
	report.WinLossData = winLossRatio(report.ProfitData)

	return report
}

func sortByExitAscending(orders []entity.Order) []entity.Order {
	sorted := make([]entity.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return exitTimeOf(sorted[i]).Before(exitTimeOf(sorted[j]))
	})
	return sorted
}

func profitSeries(sorted []entity.Order, fee float64) []dto.ProfitPoint {
	points := make([]dto.ProfitPoint, 0, len(sorted))
	for i, o := range sorted {
		points = append(points, dto.ProfitPoint{
			Trade:            i + 1,
			ProfitWithoutFee: o.Profit,
			ProfitWithFee:    o.Profit - fee,
			Symbol:           o.Symbol,
		})
	}
	return points
}

func runningProfitSeries(sorted []entity.Order, fee float64) []dto.RunningProfitPoint {
	points := make([]dto.RunningProfitPoint, 0, len(sorted))
	var cumWithoutFee, cumWithFee float64
	for i, o := range sorted {
		cumWithoutFee += o.Profit
		cumWithFee += o.Profit - fee
		points = append(points, dto.RunningProfitPoint{
			Trade:                      i + 1,
			CumulativeProfitWithoutFee: utils.Round2(cumWithoutFee),
			CumulativeProfitWithFee:    utils.Round2(cumWithFee),
		})
	}
	return points
}

// totalReturnSeries walks the trades in reverse exit-time order: step i
// covers the i+1 most recent trades, with bankroll/N invested per
// trade. Callers must not assume chronological ordering here.
func totalReturnSeries(sorted []entity.Order, fee float64) []dto.TotalReturnPoint {
	perTrade := bankroll / float64(len(sorted))

	points := make([]dto.TotalReturnPoint, 0, len(sorted))
	var cumWithoutFee, cumWithFee float64
	for i := range sorted {
		o := sorted[len(sorted)-1-i]
		cumWithoutFee += o.Profit
		cumWithFee += o.Profit - fee
		invested := perTrade * float64(i+1)
		points = append(points, dto.TotalReturnPoint{
			Trade:                    i,
			TotalReturnPctWithoutFee: utils.Round2(cumWithoutFee / invested * 100),
			TotalReturnPctWithFee:    utils.Round2(cumWithFee / invested * 100),
			Symbol:                   o.Symbol,
		})
	}
	return points
}

func distributionSeries(sorted []entity.Order, fee float64) []dto.DistributionBucket {
	buckets := []dto.DistributionBucket{
		{Range: "<-20%"},
		{Range: "-20% to -10%"},
		{Range: "-10% to 0%"},
		{Range: "0% to 10%"},
		{Range: "10% to 20%"},
		{Range: ">20%"},
	}

	for _, o := range sorted {
		buckets[bucketIndex(o.Profit)].CountWithoutFee++
		buckets[bucketIndex(o.Profit-fee)].CountWithFee++
	}
	return buckets
}

// bucketIndex places a profit into exactly one of the six fixed ranges:
// <-20, [-20,-10), [-10,0), [0,10), [10,20), >=20.
func bucketIndex(profit float64) int {
	switch {
	case profit < -20:
		return 0
	case profit < -10:
		return 1
	case profit < 0:
		return 2
	case profit < 10:
		return 3
	case profit < 20:
		return 4
	default:
		return 5
	}
}

func holdingTimeSeries(sorted []entity.Order, fee float64) []dto.HoldingTimePoint {
	points := make([]dto.HoldingTimePoint, 0, len(sorted))
	for _, o := range sorted {
		points = append(points, dto.HoldingTimePoint{
			HoldingTime:      utils.Round2(o.HoldingTimeHours()),
			ProfitWithoutFee: o.Profit,
			ProfitWithFee:    o.Profit - fee,
			Symbol:           o.Symbol,
		})
	}
	return points
}

func profitBySymbolSeries(sorted []entity.Order, fee float64) []dto.SymbolProfit {
	type sums struct {
		withoutFee float64
		withFee    float64
	}

	order := make([]string, 0)
	bySymbol := make(map[string]*sums)
	for _, o := range sorted {
		acc, seen := bySymbol[o.Symbol]
		if !seen {
			acc = &sums{}
			bySymbol[o.Symbol] = acc
			order = append(order, o.Symbol)
		}
		acc.withoutFee += o.Profit
		acc.withFee += o.Profit - fee
	}

	points := make([]dto.SymbolProfit, 0, len(order))
	for _, symbol := range order {
		acc := bySymbol[symbol]
		points = append(points, dto.SymbolProfit{
			Symbol:           symbol,
			ProfitWithoutFee: utils.Round2(acc.withoutFee),
			ProfitWithFee:    utils.Round2(acc.withFee),
		})
	}
	return points
}

// profitByStopLossSeries reports the mean, not the sum, per stop-loss
// bucket. Trades with a trailing initial stop form one bucket; anything
// else counts as static. Only buckets with members are emitted.
func profitByStopLossSeries(sorted []entity.Order, fee float64) []dto.StopLossProfit {
	type sums struct {
		withoutFee float64
		withFee    float64
		count      int
	}

	order := make([]string, 0, 2)
	byType := make(map[string]*sums)
	for _, o := range sorted {
		name := "Static"
		if o.InitialSL == common.StopLossTrailing {
			name = "Trailing"
		}
		acc, seen := byType[name]
		if !seen {
			acc = &sums{}
			byType[name] = acc
			order = append(order, name)
		}
		acc.withoutFee += o.Profit
		acc.withFee += o.Profit - fee
		acc.count++
	}

	points := make([]dto.StopLossProfit, 0, len(order))
	for _, name := range order {
		acc := byType[name]
		points = append(points, dto.StopLossProfit{
			Type:             name,
			ProfitWithoutFee: utils.Round2(acc.withoutFee / float64(acc.count)),
			ProfitWithFee:    utils.Round2(acc.withFee / float64(acc.count)),
		})
	}
	return points
}

func winLossRatio(profitData []dto.ProfitPoint) dto.WinLossRatio {
	var ratio dto.WinLossRatio
	for _, p := range profitData {
		if p.ProfitWithFee >= 0 {
			ratio.Wins++
		} else {
			ratio.Losses++
		}
	}
	return ratio
}

func exitTimeOf(o entity.Order) time.Time {
	if o.ExitDatetime == nil {
		return time.Time{}
	}
	return *o.ExitDatetime
}
