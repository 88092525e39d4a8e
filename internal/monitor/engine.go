package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"crypto-trading-assistant-go/internal/market"
	"crypto-trading-assistant-go/internal/position"
	"go.uber.org/zap"
)

// Engine drives the position manager: it consumes signals from the
// analysis pipeline and fans market-data ticks into the manager on a
// fixed polling interval. Alert delivery happens here, at the edge; the
// manager itself only returns alert data.
type Engine struct {
	logger   *zap.Logger
	client   market.Client
	manager  *position.Manager
	interval time.Duration
	signals  <-chan position.SignalData
	// universe is the set of tradable pairs from config; signals for
	// anything else are dropped. Empty means no restriction.
	universe map[string]bool
}

// NewEngine creates a monitoring engine. signals may be nil when the
// engine is used for price monitoring only.
func NewEngine(logger *zap.Logger, client market.Client, manager *position.Manager, pollInterval time.Duration, signals <-chan position.SignalData, symbols []string) *Engine {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	universe := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		universe[s] = true
	}
	return &Engine{
		logger:   logger,
		client:   client,
		manager:  manager,
		interval: pollInterval,
		signals:  signals,
		universe: universe,
	}
}

// Run blocks until ctx is cancelled, polling prices on the configured
// interval and handling incoming signals between polls.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("starting monitor loop", zap.Duration("interval", e.interval))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("stopping monitor loop")
			return
		case sig, ok := <-e.signals:
			if !ok {
				e.signals = nil
				continue
			}
			e.handleSignal(sig)
		case <-ticker.C:
			if err := e.poll(ctx); err != nil {
				e.logger.Error("price poll failed", zap.Error(err))
			}
		}
	}
}

// handleSignal turns one upstream signal into a suggestion. A duplicate
// is normal while a position is open for the symbol and is not an error
// worth more than a debug line.
func (e *Engine) handleSignal(sig position.SignalData) {
	if len(e.universe) > 0 && !e.universe[sig.Symbol] {
		e.logger.Debug("signal dropped, symbol not in trading universe", zap.String("symbol", sig.Symbol))
		return
	}

	suggestion, err := e.manager.Suggest(sig)
	switch {
	case errors.Is(err, position.ErrDuplicateSuggestion):
		e.logger.Debug("signal ignored, symbol already tracked", zap.String("symbol", sig.Symbol))
	case err != nil:
		e.logger.Warn("rejected signal", zap.String("symbol", sig.Symbol), zap.Error(err))
	default:
		e.logger.Info("new suggestion ready for review",
			zap.String("symbol", suggestion.Symbol),
			zap.String("direction", string(suggestion.Direction)),
			zap.Float64("entry", suggestion.EntryPrice),
			zap.Float64("risk_reward", suggestion.RiskRewardRatio),
		)
	}
}

// symbolUpdate carries the outcome of one symbol's tick update back to
// the polling goroutine.
type symbolUpdate struct {
	symbol string
	alerts []position.Alert
	err    error
}

// poll fetches all ticker prices once and applies them to every active
// position concurrently. Per-symbol serialization is the manager's
// concern; cross-symbol updates are independent and safe in parallel.
func (e *Engine) poll(ctx context.Context) error {
	active := e.manager.Active()
	if len(active) == 0 {
		return nil
	}

	prices, err := e.client.GetTickerPrices(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	updates := make(chan symbolUpdate, len(active))

	for _, p := range active {
		price, ok := prices[tickerSymbol(p.Symbol)]
		if !ok {
			e.logger.Warn("no ticker price for monitored symbol", zap.String("symbol", p.Symbol))
			continue
		}

		wg.Add(1)
		go func(symbol string, price float64) {
			defer wg.Done()
			_, alerts, err := e.manager.Update(symbol, price)
			updates <- symbolUpdate{symbol: symbol, alerts: alerts, err: err}
		}(p.Symbol, price)
	}

	go func() {
		wg.Wait()
		close(updates)
	}()

	for u := range updates {
		if u.err != nil {
			e.logger.Error("position update failed", zap.String("symbol", u.symbol), zap.Error(u.err))
			continue
		}
		e.deliver(u.alerts)
	}

	return nil
}

// deliver pushes alerts to the user. The current delivery channel is
// the structured log; the dashboard reads the same state over HTTP.
func (e *Engine) deliver(alerts []position.Alert) {
	for _, a := range alerts {
		e.logger.Info(a.String(),
			zap.String("alert_kind", string(a.Kind)),
			zap.String("symbol", a.Symbol),
		)
	}
}

// tickerSymbol maps a position symbol like "BTC/USDT" to the exchange
// ticker form "BTCUSDT".
func tickerSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}
