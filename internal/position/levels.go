package position

import "math"

// ComputeLevels calculates the stop-loss and take-profit prices for a
// suggestion. The target distance widens with confidence; the stop
// distance is fixed by the profile so higher confidence never widens
// risk. Deterministic for identical inputs.
func ComputeLevels(entryPrice float64, direction Direction, confidence int, profile RiskProfile) (stopLoss, takeProfit float64) {
	targetMultiplier := 1 + float64(confidence)/100
	targetPct := profile.BaseTargetPct * targetMultiplier

	if direction == Buy {
		stopLoss = entryPrice * (1 - profile.BaseStopPct)
		takeProfit = entryPrice * (1 + targetPct)
	} else {
		stopLoss = entryPrice * (1 + profile.BaseStopPct)
		takeProfit = entryPrice * (1 - targetPct)
	}
	return stopLoss, takeProfit
}

// ComputeSize sizes the position so the amount risked at the stop equals
// the profile's risk-per-trade budget, capped at twice the default size.
// A zero stop distance returns the default size unchanged.
func ComputeSize(entryPrice, stopLoss float64, profile RiskProfile) float64 {
	stopDistance := math.Abs(entryPrice-stopLoss) / entryPrice
	if stopDistance == 0 {
		return profile.DefaultPositionSize
	}

	calculated := (profile.DefaultPositionSize * profile.RiskPerTradeFraction) / stopDistance
	return math.Min(calculated, profile.DefaultPositionSize*2)
}
