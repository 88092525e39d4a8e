package main

import (
	"fmt"
	"net/http"
	"os"

	"crypto-trading-assistant-go/internal/config"
	"crypto-trading-assistant-go/internal/database"
	"crypto-trading-assistant-go/internal/logger"
	"go.uber.org/zap"
)

// Standalone dashboard over the position archive. Live state (open
// suggestions and positions) is served by the assistant process itself;
// this binary only needs the database.
func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open position archive", zap.Error(err))
	}

	mux := http.NewServeMux()

	apiHandler := NewAPIHandler(log, db)
	mux.HandleFunc("/api/history", apiHandler.HistoryHandler)
	mux.HandleFunc("/api/statistics", apiHandler.StatisticsHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port+1)
	log.Info("starting dashboard server", zap.String("address", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("dashboard server failed", zap.Error(err))
	}
}
