package dto

import (
	"time"

	"stock-order-dashboard/internal/entity"
)

// OrderView is one order in the merged dashboard view, decorated with
// the profit-to-color mapping derived from the current settings.
type OrderView struct {
	entity.Order
	Color string `json:"color"`
}

// AlertView is one pending alert joined with its backing order at the
// boundary; Order is nil when the symbol no longer resolves against the
// order view.
type AlertView struct {
	Notification entity.Notification `json:"notification"`
	Order        *entity.Order       `json:"order,omitempty"`
	Color        string              `json:"color,omitempty"`
}

// AlertsResponse carries the pending set and whether the alert surface
// should be visible (pending non-empty and sound alerts enabled).
type AlertsResponse struct {
	Alerts         []AlertView `json:"alerts"`
	SurfaceVisible bool        `json:"surfaceVisible"`
}

// FeedbackResponse reports the currently active feedback event, if any.
// Kind is "celebration" or "failure"; ExpiresAt bounds its duration.
type FeedbackResponse struct {
	Active    bool      `json:"active"`
	Kind      string    `json:"kind,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// CandlesResponse carries the proxied candle history plus the bar
// indices where the order's entry and exit markers belong. An index of
// -1 means no bar at or after the timestamp.
type CandlesResponse struct {
	Symbol     string          `json:"symbol"`
	Candles    []entity.Candle `json:"candles"`
	EntryIndex int             `json:"entryIndex"`
	ExitIndex  int             `json:"exitIndex"`
}
