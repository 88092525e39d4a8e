package main

import (
	"encoding/json"
	"net/http"
	"time"

	"crypto-trading-assistant-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the archive endpoints.
type APIHandler struct {
	log *zap.Logger
	db  *gorm.DB
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB) *APIHandler {
	return &APIHandler{log: log, db: db}
}

// HistoryHandler returns all archived positions, most recent exit first.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	var records []models.PositionRecord
	if err := h.db.Order("exit_time desc").Find(&records).Error; err != nil {
		h.log.Error("failed to load position records", zap.Error(err))
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// StatsDetail holds calculated statistics for a given period.
type StatsDetail struct {
	TotalPositions  int64   `json:"total_positions"`
	ProfitableExits int64   `json:"profitable_exits"`
	WinRate         float64 `json:"win_rate"`
	TotalProfit     float64 `json:"total_profit"`
	StopLossExits   int64   `json:"stop_loss_exits"`
	TargetExits     int64   `json:"target_exits"`
}

// StatisticsResponse is the structure for the /api/statistics endpoint.
type StatisticsResponse struct {
	Since30d StatsDetail `json:"since_30d"`
	AllTime  StatsDetail `json:"all_time"`
}

// StatisticsHandler calculates exit statistics over the archive.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	var records []models.PositionRecord
	if err := h.db.Find(&records).Error; err != nil {
		h.log.Error("failed to load position records for statistics", zap.Error(err))
		http.Error(w, "failed to calculate statistics", http.StatusInternalServerError)
		return
	}

	since30d := time.Now().Add(-30 * 24 * time.Hour).Unix()

	stats30d := StatsDetail{}
	statsAllTime := StatsDetail{}

	tally := func(s *StatsDetail, rec *models.PositionRecord) {
		s.TotalPositions++
		if rec.ProfitLoss > 0 {
			s.ProfitableExits++
		}
		s.TotalProfit += rec.ProfitLoss
		switch rec.Status {
		case "STOP_LOSS":
			s.StopLossExits++
		case "PROFIT_TARGET":
			s.TargetExits++
		}
	}

	for i := range records {
		rec := &records[i]
		tally(&statsAllTime, rec)
		if rec.ExitTime >= since30d {
			tally(&stats30d, rec)
		}
	}

	if statsAllTime.TotalPositions > 0 {
		statsAllTime.WinRate = float64(statsAllTime.ProfitableExits) / float64(statsAllTime.TotalPositions)
	}
	if stats30d.TotalPositions > 0 {
		stats30d.WinRate = float64(stats30d.ProfitableExits) / float64(stats30d.TotalPositions)
	}

	response := StatisticsResponse{
		Since30d: stats30d,
		AllTime:  statsAllTime,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
