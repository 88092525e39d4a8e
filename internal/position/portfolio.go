package position

import "time"

// realizedWindow is the trailing window over which realized P&L and win
// rate are computed.
const realizedWindow = 30 * 24 * time.Hour

// Summary is the derived portfolio view. Nothing in it is stored; it is
// recomputed from the live tables and history on every call.
type Summary struct {
	ActivePositions     int     `json:"active_positions"`
	SuggestedPositions  int     `json:"suggested_positions"`
	TotalPortfolioValue float64 `json:"total_portfolio_value"`
	UnrealizedPnL       float64 `json:"unrealized_pnl"`
	RealizedPnL30d      float64 `json:"realized_pnl_30d"`
	WinRate30d          float64 `json:"win_rate_30d"`
	WinningPositions    int     `json:"winning_positions"`
	LosingPositions     int     `json:"losing_positions"`
}

// Summarize rolls up active positions and the trailing-30-day slice of
// history. An empty window yields a zero win rate, never a division by
// zero.
func (m *Manager) Summarize() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Summary{
		ActivePositions:    len(m.active),
		SuggestedPositions: len(m.suggested),
	}

	for _, p := range m.active {
		s.TotalPortfolioValue += p.PositionSize
		s.UnrealizedPnL += p.ProfitLoss
		if p.ProfitLoss > 0 {
			s.WinningPositions++
		} else if p.ProfitLoss < 0 {
			s.LosingPositions++
		}
	}

	cutoff := time.Now().Add(-realizedWindow)
	var recent, wins int
	for i := range m.history {
		p := &m.history[i]
		if p.ExitTime.Before(cutoff) {
			continue
		}
		recent++
		s.RealizedPnL30d += p.ProfitLoss
		if p.ProfitLoss > 0 {
			wins++
		}
	}
	if recent > 0 {
		s.WinRate30d = float64(wins) / float64(recent) * 100
	}

	return s
}
