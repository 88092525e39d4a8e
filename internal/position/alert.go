package position

import "fmt"

// AlertKind classifies an alert emitted by the manager.
type AlertKind string

const (
	AlertEntered      AlertKind = "entered"
	AlertProfitTarget AlertKind = "profit_target"
	AlertStopLoss     AlertKind = "stop_loss"
	AlertTrailingStop AlertKind = "trailing_stop"
	AlertTimeLimit    AlertKind = "time_limit"
	AlertManualExit   AlertKind = "manual_exit"
	AlertTrailUpdated AlertKind = "trail_updated"
	AlertMilestone    AlertKind = "milestone"
)

// Alert is the data for one notification. The manager only produces
// these; delivery (log line, push, dashboard) is the caller's job.
type Alert struct {
	Kind      AlertKind
	Symbol    string
	Direction Direction
	Price     float64
	PnL       float64
	PnLPct    float64
	// Milestone is the threshold magnitude for AlertMilestone, signed
	// negative for a loss milestone.
	Milestone int
}

// String renders the alert as the human-readable line shown to the user.
func (a Alert) String() string {
	switch a.Kind {
	case AlertEntered:
		return fmt.Sprintf("Entered %s %s at $%.4f", a.Symbol, a.Direction, a.Price)
	case AlertProfitTarget:
		return fmt.Sprintf("PROFIT TARGET HIT! %s +$%.2f (+%.1f%%)", a.Symbol, a.PnL, a.PnLPct)
	case AlertStopLoss:
		return fmt.Sprintf("STOP LOSS HIT: %s -$%.2f (%.1f%%)", a.Symbol, abs(a.PnL), a.PnLPct)
	case AlertTrailingStop:
		return fmt.Sprintf("TRAILING STOP: %s $%.2f (%+.1f%%)", a.Symbol, a.PnL, a.PnLPct)
	case AlertTimeLimit:
		return fmt.Sprintf("TIME EXIT: %s %+.2f", a.Symbol, a.PnL)
	case AlertManualExit:
		return fmt.Sprintf("CLOSED: %s %+.2f (%+.1f%%)", a.Symbol, a.PnL, a.PnLPct)
	case AlertTrailUpdated:
		return fmt.Sprintf("%s trailing stop updated: $%.4f", a.Symbol, a.Price)
	case AlertMilestone:
		if a.Milestone >= 0 {
			return fmt.Sprintf("%s up %d%%! Current: +%.1f%%", a.Symbol, a.Milestone, a.PnLPct)
		}
		return fmt.Sprintf("%s down %d%%. Current: %.1f%%", a.Symbol, -a.Milestone, a.PnLPct)
	}
	return fmt.Sprintf("%s: %s", a.Symbol, a.Kind)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
