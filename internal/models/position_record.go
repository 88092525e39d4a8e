package models

import "gorm.io/gorm"

// PositionRecord is an archived row for a position that reached a
// terminal state. The live lifecycle runs entirely in memory; this
// table is a write-behind archive so closed trades survive restarts.
type PositionRecord struct {
	gorm.Model
	Symbol       string  `json:"symbol" gorm:"index"`
	Direction    string  `json:"direction"` // "BUY" or "SELL"
	EntryPrice   float64 `json:"entry_price"`
	ExitPrice    float64 `json:"exit_price"`
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
	PositionSize float64 `json:"position_size"`
	Confidence   int     `json:"confidence"`
	Status       string  `json:"status"` // terminal status at exit
	ProfitLoss   float64 `json:"profit_loss"`
	ProfitPct    float64 `json:"profit_pct"`
	EntryTime    int64   `json:"entry_time"`
	ExitTime     int64   `json:"exit_time" gorm:"index"`
}
