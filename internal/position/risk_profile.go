package position

import "fmt"

// Tolerance selects the base stop/target percentages for new suggestions.
type Tolerance string

const (
	ToleranceLow    Tolerance = "low"
	ToleranceMedium Tolerance = "medium"
	ToleranceHigh   Tolerance = "high"
)

// RiskProfile holds the per-user risk parameters applied to every
// suggestion. It is pure configuration; the manager never mutates it.
type RiskProfile struct {
	Tolerance            Tolerance
	BaseStopPct          float64 // stop distance as a fraction of entry price
	BaseTargetPct        float64 // target distance as a fraction of entry price
	RiskPerTradeFraction float64 // fraction of the account risked per trade
	DefaultPositionSize  float64 // base dollar notional
	MaxPositions         int     // concurrent position cap, enforced by the caller
	UseTrailingStops     bool
}

// NewRiskProfile maps a tolerance to the fixed stop/target/risk fractions.
// Unknown tolerance strings are rejected rather than silently defaulted.
func NewRiskProfile(tolerance string, defaultSize float64, maxPositions int, trailingStops bool) (RiskProfile, error) {
	p := RiskProfile{
		Tolerance:           Tolerance(tolerance),
		DefaultPositionSize: defaultSize,
		MaxPositions:        maxPositions,
		UseTrailingStops:    trailingStops,
	}

	switch p.Tolerance {
	case ToleranceLow:
		p.BaseStopPct = 0.02
		p.BaseTargetPct = 0.04
		p.RiskPerTradeFraction = 0.01
	case ToleranceMedium:
		p.BaseStopPct = 0.03
		p.BaseTargetPct = 0.09
		p.RiskPerTradeFraction = 0.02
	case ToleranceHigh:
		p.BaseStopPct = 0.05
		p.BaseTargetPct = 0.15
		p.RiskPerTradeFraction = 0.03
	default:
		return RiskProfile{}, fmt.Errorf("%w: unknown risk tolerance %q", ErrInvalidInput, tolerance)
	}

	return p, nil
}
