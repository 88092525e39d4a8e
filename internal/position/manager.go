package position

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// trailingDistancePct is the fixed distance a trailing stop is kept
// below (BUY) or above (SELL) the current price.
const trailingDistancePct = 0.03

// milestoneThresholds are the profit/loss percentages that trigger a
// one-shot notification per position.
var milestoneThresholds = []int{5, 10, 15, 20, 25, 30}

// Archiver persists a position once it reaches a terminal state. A nil
// Archiver is valid; the manager then keeps history in memory only.
type Archiver interface {
	Archive(p TradingPosition) error
}

// Manager owns all position state and runs the lifecycle state machine:
//
//	SUGGESTED -> ENTERED -> {PROFIT_TARGET | STOP_LOSS | TRAILING_STOP | TIME_LIMIT | MANUAL_EXIT}
//
// One lock guards the whole table; the symbol count is tens, not
// millions, and every operation is an in-memory transition that
// completes in bounded time. Cross-symbol calls therefore serialize,
// which is acceptable at this scale and keeps the check-then-act
// sequences (duplicate check, transition guards) trivially correct.
type Manager struct {
	logger  *zap.Logger
	profile RiskProfile
	maxHold time.Duration
	archive Archiver

	mu        sync.RWMutex
	suggested map[string]*TradingPosition
	active    map[string]*TradingPosition
	history   []TradingPosition
}

// NewManager creates a manager for the given risk profile. maxHold <= 0
// defaults to 24 hours. archive may be nil.
func NewManager(logger *zap.Logger, profile RiskProfile, maxHold time.Duration, archive Archiver) *Manager {
	if maxHold <= 0 {
		maxHold = 24 * time.Hour
	}
	return &Manager{
		logger:    logger,
		profile:   profile,
		maxHold:   maxHold,
		archive:   archive,
		suggested: make(map[string]*TradingPosition),
		active:    make(map[string]*TradingPosition),
	}
}

// Profile returns the risk profile the manager was built with.
func (m *Manager) Profile() RiskProfile {
	return m.profile
}

// Suggest turns a signal into a fully parameterized suggestion. It
// fails with ErrDuplicateSuggestion if the symbol already has a
// suggested or active position, and with ErrInvalidInput for a bad
// price or direction. State is untouched on any failure.
func (m *Manager) Suggest(sig SignalData) (TradingPosition, error) {
	confidence, err := sig.validate()
	if err != nil {
		return TradingPosition{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.suggested[sig.Symbol]; ok {
		return TradingPosition{}, fmt.Errorf("%w: %s", ErrDuplicateSuggestion, sig.Symbol)
	}
	if _, ok := m.active[sig.Symbol]; ok {
		return TradingPosition{}, fmt.Errorf("%w: %s", ErrDuplicateSuggestion, sig.Symbol)
	}

	stopLoss, takeProfit := ComputeLevels(sig.Price, sig.Direction, confidence, m.profile)
	size := ComputeSize(sig.Price, stopLoss, m.profile)

	p := &TradingPosition{
		Symbol:          sig.Symbol,
		Direction:       sig.Direction,
		EntryPrice:      sig.Price,
		CurrentPrice:    sig.Price,
		StopLoss:        stopLoss,
		TakeProfit:      takeProfit,
		PositionSize:    size,
		Confidence:      confidence,
		Status:          StatusSuggested,
		EntryTime:       time.Now(),
		milestonesFired: make(map[int]bool),
	}
	computeMetrics(p)

	m.suggested[sig.Symbol] = p
	m.logger.Info("position suggested",
		zap.String("symbol", p.Symbol),
		zap.String("direction", string(p.Direction)),
		zap.Float64("entry", p.EntryPrice),
		zap.Float64("stop_loss", p.StopLoss),
		zap.Float64("take_profit", p.TakeProfit),
		zap.Float64("size", p.PositionSize),
		zap.Int("confidence", p.Confidence),
	)
	return *p, nil
}

// Accept transitions a suggestion to an active position and emits the
// entry alert. A second Accept for the same symbol fails with
// ErrNotFound because the record has left the suggestion set.
func (m *Manager) Accept(symbol string) (TradingPosition, []Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.suggested[symbol]
	if !ok {
		return TradingPosition{}, nil, fmt.Errorf("%w: no suggestion for %s", ErrNotFound, symbol)
	}

	p.Status = StatusEntered
	delete(m.suggested, symbol)
	m.active[symbol] = p

	alert := Alert{
		Kind:      AlertEntered,
		Symbol:    symbol,
		Direction: p.Direction,
		Price:     p.EntryPrice,
	}
	m.logger.Info("position entered", zap.String("symbol", symbol), zap.Float64("entry", p.EntryPrice))
	return *p, []Alert{alert}, nil
}

// WithdrawSuggestion drops a suggestion that the user declined or that
// a newer signal superseded. Suggestions are never auto-entered.
func (m *Manager) WithdrawSuggestion(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.suggested[symbol]; !ok {
		return fmt.Errorf("%w: no suggestion for %s", ErrNotFound, symbol)
	}
	delete(m.suggested, symbol)
	return nil
}

// Update applies a price tick to the symbol's active position, runs the
// exit-condition checks and, if the position stays open, the trailing
// stop and milestone logic. A tick for a symbol with no active position
// is a normal occurrence and returns (zero, nil, nil). The returned
// position reflects the post-update state, terminal or not.
func (m *Manager) Update(symbol string, currentPrice float64) (TradingPosition, []Alert, error) {
	if currentPrice <= 0 {
		return TradingPosition{}, nil, fmt.Errorf("%w: non-positive price %v for %s", ErrInvalidInput, currentPrice, symbol)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.active[symbol]
	if !ok {
		return TradingPosition{}, nil, nil
	}

	p.CurrentPrice = currentPrice
	computeMetrics(p)

	if status, ok := m.exitStatus(p); ok {
		alerts := m.exitLocked(p, status)
		return *p, alerts, nil
	}

	var alerts []Alert
	if m.profile.UseTrailingStops {
		alerts = append(alerts, m.updateTrailingStop(p)...)
	}
	alerts = append(alerts, m.checkMilestones(p)...)
	return *p, alerts, nil
}

// Close forces a MANUAL_EXIT regardless of price, with the same
// archival behavior as an automatic exit.
func (m *Manager) Close(symbol string) (TradingPosition, []Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.active[symbol]
	if !ok {
		return TradingPosition{}, nil, fmt.Errorf("%w: no active position for %s", ErrNotFound, symbol)
	}

	alerts := m.exitLocked(p, StatusManualExit)
	return *p, alerts, nil
}

// exitStatus evaluates the exit conditions in their fixed priority:
// stop-loss, take-profit, trailing-stop, time-limit. The ordering is a
// contract; when a gap tick satisfies both stop and target at once,
// stop-loss wins deterministically.
func (m *Manager) exitStatus(p *TradingPosition) (Status, bool) {
	price := p.CurrentPrice

	if p.Direction == Buy {
		if price <= p.StopLoss {
			return StatusStopLoss, true
		}
		if price >= p.TakeProfit {
			return StatusProfitTarget, true
		}
		if p.TrailingStop > 0 && price <= p.TrailingStop {
			return StatusTrailingStop, true
		}
	} else {
		if price >= p.StopLoss {
			return StatusStopLoss, true
		}
		if price <= p.TakeProfit {
			return StatusProfitTarget, true
		}
		if p.TrailingStop > 0 && price >= p.TrailingStop {
			return StatusTrailingStop, true
		}
	}

	if time.Since(p.EntryTime) > m.maxHold {
		return StatusTimeLimit, true
	}
	return "", false
}

// exitLocked performs the terminal transition: sets status and exit
// time, emits exactly one exit alert, moves the record from the active
// set to history and hands it to the archiver. Caller holds the lock.
func (m *Manager) exitLocked(p *TradingPosition, status Status) []Alert {
	p.Status = status
	p.ExitTime = time.Now()

	alert := Alert{
		Kind:      exitAlertKind(status),
		Symbol:    p.Symbol,
		Direction: p.Direction,
		Price:     p.CurrentPrice,
		PnL:       p.ProfitLoss,
		PnLPct:    p.ProfitPct,
	}

	delete(m.active, p.Symbol)
	m.history = append(m.history, *p)

	m.logger.Info("position exited",
		zap.String("symbol", p.Symbol),
		zap.String("status", string(status)),
		zap.Float64("pnl", p.ProfitLoss),
		zap.Float64("pnl_pct", p.ProfitPct),
	)

	if m.archive != nil {
		if err := m.archive.Archive(*p); err != nil {
			// Persistence is best-effort; the in-memory transition stands.
			m.logger.Error("failed to archive exited position",
				zap.String("symbol", p.Symbol), zap.Error(err))
		}
	}

	return []Alert{alert}
}

func exitAlertKind(status Status) AlertKind {
	switch status {
	case StatusProfitTarget:
		return AlertProfitTarget
	case StatusStopLoss:
		return AlertStopLoss
	case StatusTrailingStop:
		return AlertTrailingStop
	case StatusTimeLimit:
		return AlertTimeLimit
	default:
		return AlertManualExit
	}
}

// updateTrailingStop ratchets the trailing stop toward the current
// price. It only ever tightens: higher for BUY, lower for SELL. A
// candidate that does not improve on the existing stop is silent.
func (m *Manager) updateTrailingStop(p *TradingPosition) []Alert {
	var candidate float64
	if p.Direction == Buy {
		candidate = p.CurrentPrice * (1 - trailingDistancePct)
		if p.TrailingStop != 0 && candidate <= p.TrailingStop {
			return nil
		}
	} else {
		candidate = p.CurrentPrice * (1 + trailingDistancePct)
		if p.TrailingStop != 0 && candidate >= p.TrailingStop {
			return nil
		}
	}

	p.TrailingStop = candidate
	return []Alert{{
		Kind:      AlertTrailUpdated,
		Symbol:    p.Symbol,
		Direction: p.Direction,
		Price:     candidate,
	}}
}

// checkMilestones fires one alert per threshold the position's P&L
// percentage has crossed, in either direction. Once fired a threshold
// never re-fires for this position, even if price retraces and crosses
// it again.
func (m *Manager) checkMilestones(p *TradingPosition) []Alert {
	var alerts []Alert
	for _, threshold := range milestoneThresholds {
		if p.milestonesFired[threshold] {
			continue
		}
		switch {
		case p.ProfitPct >= float64(threshold):
			alerts = append(alerts, Alert{
				Kind:      AlertMilestone,
				Symbol:    p.Symbol,
				PnLPct:    p.ProfitPct,
				Milestone: threshold,
			})
			p.milestonesFired[threshold] = true
		case p.ProfitPct <= -float64(threshold):
			alerts = append(alerts, Alert{
				Kind:      AlertMilestone,
				Symbol:    p.Symbol,
				PnLPct:    p.ProfitPct,
				Milestone: -threshold,
			})
			p.milestonesFired[threshold] = true
		}
	}
	return alerts
}

// Suggestions returns a snapshot of the current suggestions.
func (m *Manager) Suggestions() []TradingPosition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TradingPosition, 0, len(m.suggested))
	for _, p := range m.suggested {
		out = append(out, *p)
	}
	return out
}

// Active returns a snapshot of the positions being monitored.
func (m *Manager) Active() []TradingPosition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TradingPosition, 0, len(m.active))
	for _, p := range m.active {
		out = append(out, *p)
	}
	return out
}

// History returns the most recent limit exited positions, oldest first.
// limit <= 0 returns everything.
func (m *Manager) History(limit int) []TradingPosition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]TradingPosition, n)
	copy(out, m.history[len(m.history)-n:])
	return out
}
