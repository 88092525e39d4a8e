package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-trading-assistant-go/internal/config"
	"crypto-trading-assistant-go/internal/database"
	"crypto-trading-assistant-go/internal/logger"
	"crypto-trading-assistant-go/internal/market"
	"crypto-trading-assistant-go/internal/monitor"
	"crypto-trading-assistant-go/internal/position"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("configuration loaded")

	// Open the position archive
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open position archive", zap.Error(err))
	}
	log.Info("position archive ready")

	// Initialize the market data client and check connectivity
	client := market.NewRestClient(&cfg.Market, log)
	if _, err := client.GetServerTime(context.Background()); err != nil {
		log.Fatal("failed to reach market data API", zap.Error(err))
	}
	log.Info("market data API reachable")

	// Build the risk profile and the lifecycle manager
	profile, err := position.NewRiskProfile(
		cfg.Risk.Tolerance,
		cfg.Risk.DefaultPositionSize,
		cfg.Risk.MaxPositions,
		cfg.Risk.TrailingStops,
	)
	if err != nil {
		log.Fatal("invalid risk configuration", zap.Error(err))
	}

	manager := position.NewManager(
		log.Named("position"),
		profile,
		time.Duration(cfg.Risk.MaxHoldHours)*time.Hour,
		database.NewGormArchiver(db),
	)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Signals arrive over HTTP from the (external) analysis pipeline
	// and are buffered into the engine's intake channel.
	signals := make(chan position.SignalData, 16)

	api := monitor.NewAPIServer(manager, signals, cfg.Server.Port, log)
	api.Start()

	engine := monitor.NewEngine(
		log.Named("monitor"),
		client,
		manager,
		time.Duration(cfg.Market.PollInterval)*time.Second,
		signals,
		cfg.Market.Symbols,
	)
	engine.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := api.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop API server", zap.Error(err))
	}

	log.Info("assistant has been shut down")
}
