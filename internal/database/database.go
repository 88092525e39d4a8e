package database

import (
	"fmt"

	"crypto-trading-assistant-go/internal/models"
	"crypto-trading-assistant-go/internal/position"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the position archive and migrates its schema.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.PositionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return db, nil
}

// GormArchiver persists exited positions to the archive table. It
// implements position.Archiver.
type GormArchiver struct {
	db *gorm.DB
}

// NewGormArchiver wraps an open archive database.
func NewGormArchiver(db *gorm.DB) *GormArchiver {
	return &GormArchiver{db: db}
}

var _ position.Archiver = (*GormArchiver)(nil)

// Archive inserts one terminal position as a PositionRecord.
func (a *GormArchiver) Archive(p position.TradingPosition) error {
	rec := models.PositionRecord{
		Symbol:       p.Symbol,
		Direction:    string(p.Direction),
		EntryPrice:   p.EntryPrice,
		ExitPrice:    p.CurrentPrice,
		StopLoss:     p.StopLoss,
		TakeProfit:   p.TakeProfit,
		PositionSize: p.PositionSize,
		Confidence:   p.Confidence,
		Status:       string(p.Status),
		ProfitLoss:   p.ProfitLoss,
		ProfitPct:    p.ProfitPct,
		EntryTime:    p.EntryTime.Unix(),
		ExitTime:     p.ExitTime.Unix(),
	}
	if err := a.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save position record: %w", err)
	}
	return nil
}
