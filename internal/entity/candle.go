package entity

import "time"

// Candle is one OHLC bar from the remote stock endpoint. Field names
// match the remote service's JSON shape.
type Candle struct {
	Datetime time.Time `json:"Datetime"`
	Open     float64   `json:"Open"`
	High     float64   `json:"High"`
	Low      float64   `json:"Low"`
	Close    float64   `json:"Close"`
	Volume   float64   `json:"Volume"`
}
