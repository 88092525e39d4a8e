package position

import "time"

// Direction is the side of a position.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Status tracks a position through its lifecycle. Suggested and Entered
// are the only non-terminal states; the four exit statuses are terminal
// and the position is archived immediately on reaching one.
type Status string

const (
	StatusSuggested    Status = "SUGGESTED"
	StatusEntered      Status = "ENTERED"
	StatusProfitTarget Status = "PROFIT_TARGET"
	StatusStopLoss     Status = "STOP_LOSS"
	StatusTrailingStop Status = "TRAILING_STOP"
	StatusTimeLimit    Status = "TIME_LIMIT"
	StatusManualExit   Status = "MANUAL_EXIT"
)

// Terminal reports whether s is one of the exit statuses.
func (s Status) Terminal() bool {
	switch s {
	case StatusProfitTarget, StatusStopLoss, StatusTrailingStop, StatusTimeLimit, StatusManualExit:
		return true
	}
	return false
}

// TradingPosition is a trade suggestion or an active trade, keyed by
// symbol. At most one suggested-or-entered position exists per symbol.
type TradingPosition struct {
	Symbol       string    `json:"symbol"`
	Direction    Direction `json:"direction"`
	EntryPrice   float64   `json:"entry_price"`
	CurrentPrice float64   `json:"current_price"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit   float64   `json:"take_profit"`

	// TrailingStop is set only after favorable movement with trailing
	// stops enabled; zero means not yet armed.
	TrailingStop float64   `json:"trailing_stop,omitempty"`
	PositionSize float64   `json:"position_size"`
	Confidence   int       `json:"confidence"`
	Status       Status    `json:"status"`
	EntryTime    time.Time `json:"entry_time"`
	ExitTime     time.Time `json:"exit_time,omitempty"`

	// Derived; recomputed by computeMetrics whenever an input changes.
	ProfitLoss      float64 `json:"profit_loss"`
	ProfitPct       float64 `json:"profit_pct"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`

	// milestonesFired holds the profit/loss thresholds already alerted
	// on. A threshold fires once for the life of the position.
	milestonesFired map[int]bool
}

// computeMetrics derives P&L and the risk/reward ratio from the current
// fields. Pure with respect to everything except the derived fields.
func computeMetrics(p *TradingPosition) {
	if p.Direction == Buy {
		p.ProfitLoss = (p.CurrentPrice - p.EntryPrice) * p.PositionSize
		p.ProfitPct = (p.CurrentPrice - p.EntryPrice) / p.EntryPrice * 100
	} else {
		p.ProfitLoss = (p.EntryPrice - p.CurrentPrice) * p.PositionSize
		p.ProfitPct = (p.EntryPrice - p.CurrentPrice) / p.EntryPrice * 100
	}

	var risk, reward float64
	if p.Direction == Buy {
		risk = p.EntryPrice - p.StopLoss
		reward = p.TakeProfit - p.EntryPrice
	} else {
		risk = p.StopLoss - p.EntryPrice
		reward = p.EntryPrice - p.TakeProfit
	}
	if risk < 0 {
		risk = -risk
	}
	if reward < 0 {
		reward = -reward
	}

	if risk > 0 {
		p.RiskRewardRatio = reward / risk
	} else {
		p.RiskRewardRatio = 0
	}
}
