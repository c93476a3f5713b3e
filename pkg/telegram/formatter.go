package telegram

import (
	"fmt"
	"strings"

	"stock-order-dashboard/internal/entity"
)

// FormatTradeAlertMessage formats one pending trade alert into a
// Markdown message. The order may be nil when the alert's symbol no
// longer resolves against the reconciled view.
func FormatTradeAlertMessage(n entity.Notification, order *entity.Order) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔔 *Trade Alert: %s*\n", n.Symbol))
	if n.Message != "" {
		b.WriteString(fmt.Sprintf("💬 %s\n", n.Message))
	}

	if order == nil {
		b.WriteString("⚠️ Order details unavailable\n")
		return b.String()
	}

	profitIcon := "↗"
	if order.Profit < 0 {
		profitIcon = "↘"
	}
	b.WriteString(fmt.Sprintf("%s *Profit:* %.2f%%\n", profitIcon, order.Profit))
	b.WriteString(fmt.Sprintf("💵 *Entry:* $%.2f | *Current:* $%.2f\n", order.EntryPrice, order.CurrentPrice))
	b.WriteString(fmt.Sprintf("📉 *Exit:* %s (%d)\n", strings.ToUpper(order.MAType), order.Period))
	b.WriteString(fmt.Sprintf("🛑 *Initial SL:* %s %.1f%% | *TP:* %.1f%% | *Secondary SL:* %.1f%%\n",
		order.InitialSL, order.InitialSLPct, order.TakeProfitPct, order.SecondarySLPct))

	return b.String()
}
