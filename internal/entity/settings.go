package entity

// Settings are the process-wide user-adjustable toggles. In-memory only;
// they reset when the dashboard restarts.
type Settings struct {
	Telegram       bool    `json:"telegram"`
	Sound          bool    `json:"sound"`
	ColorIntensity float64 `json:"colorIntensity"`
}
