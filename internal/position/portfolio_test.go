package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("EmptyManager", func(t *testing.T) {
		m := newTestManager(t, "medium", true)

		s := m.Summarize()
		assert.Zero(t, s.ActivePositions)
		assert.Zero(t, s.SuggestedPositions)
		assert.Zero(t, s.UnrealizedPnL)
		assert.Zero(t, s.RealizedPnL30d)
		// No history must yield 0, not NaN or a panic.
		assert.Zero(t, s.WinRate30d)
	})

	t.Run("ActiveRollup", func(t *testing.T) {
		m := newTestManager(t, "medium", false)

		winner := SignalData{Symbol: "BTC/USDT", Direction: Buy, Price: 100, Strength: 50, Timestamp: time.Now()}
		loser := SignalData{Symbol: "ETH/USDT", Direction: Buy, Price: 100, Strength: 50, Timestamp: time.Now()}
		suggestAndAccept(t, m, winner)
		suggestAndAccept(t, m, loser)

		_, _, err := m.Update("BTC/USDT", 102)
		require.NoError(t, err)
		_, _, err = m.Update("ETH/USDT", 99)
		require.NoError(t, err)

		_, err = m.Suggest(SignalData{Symbol: "SOL/USDT", Direction: Buy, Price: 20, Strength: 50, Timestamp: time.Now()})
		require.NoError(t, err)

		s := m.Summarize()
		assert.Equal(t, 2, s.ActivePositions)
		assert.Equal(t, 1, s.SuggestedPositions)
		assert.Equal(t, 1, s.WinningPositions)
		assert.Equal(t, 1, s.LosingPositions)

		active := m.Active()
		var wantValue, wantPnL float64
		for _, p := range active {
			wantValue += p.PositionSize
			wantPnL += p.ProfitLoss
		}
		assert.InDelta(t, wantValue, s.TotalPortfolioValue, 1e-9)
		assert.InDelta(t, wantPnL, s.UnrealizedPnL, 1e-9)
	})

	t.Run("RealizedWindow", func(t *testing.T) {
		m := newTestManager(t, "medium", false)

		// Two exits inside the window, one winner and one loser, plus a
		// stale exit outside the 30-day window that must be ignored.
		m.history = append(m.history,
			TradingPosition{Symbol: "A/USDT", ProfitLoss: 50, ExitTime: time.Now().Add(-time.Hour)},
			TradingPosition{Symbol: "B/USDT", ProfitLoss: -20, ExitTime: time.Now().Add(-48 * time.Hour)},
			TradingPosition{Symbol: "C/USDT", ProfitLoss: 999, ExitTime: time.Now().Add(-31 * 24 * time.Hour)},
		)

		s := m.Summarize()
		assert.InDelta(t, 30, s.RealizedPnL30d, 1e-9)
		assert.InDelta(t, 50, s.WinRate30d, 1e-9)
	})

	t.Run("RealizedAfterLifecycle", func(t *testing.T) {
		m := newTestManager(t, "medium", false)
		suggestAndAccept(t, m, btcSignal(85))

		_, _, err := m.Update("BTC/USDT", 46000)
		require.NoError(t, err)
		_, _, err = m.Close("BTC/USDT")
		require.NoError(t, err)

		s := m.Summarize()
		assert.Zero(t, s.ActivePositions)
		assert.True(t, s.RealizedPnL30d > 0)
		assert.InDelta(t, 100, s.WinRate30d, 1e-9)
	})
}
