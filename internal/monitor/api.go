package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"crypto-trading-assistant-go/internal/position"
	"go.uber.org/zap"
)

// APIServer exposes the manager's read accessors and the two user
// decisions (accept, close) over HTTP. It is the process-local surface
// the mobile/desktop front end talks to.
type APIServer struct {
	server  *http.Server
	manager *position.Manager
	signals chan<- position.SignalData
	logger  *zap.Logger
}

// NewAPIServer creates an API server on the given port. signals may be
// nil when signal injection over HTTP is not wanted.
func NewAPIServer(manager *position.Manager, signals chan<- position.SignalData, port int, logger *zap.Logger) *APIServer {
	s := &APIServer{
		manager: manager,
		signals: signals,
		logger:  logger.Named("api-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/suggestions", s.suggestionsHandler)
	mux.HandleFunc("/api/positions", s.positionsHandler)
	mux.HandleFunc("/api/positions/accept", s.acceptHandler)
	mux.HandleFunc("/api/positions/close", s.closeHandler)
	mux.HandleFunc("/api/history", s.historyHandler)
	mux.HandleFunc("/api/portfolio", s.portfolioHandler)
	mux.HandleFunc("/api/signals", s.signalHandler)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

// Start runs the HTTP server in a new goroutine.
func (s *APIServer) Start() {
	s.logger.Info("starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *APIServer) suggestionsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.manager.Suggestions())
}

func (s *APIServer) positionsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.manager.Active())
}

func (s *APIServer) historyHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.manager.History(0))
}

func (s *APIServer) portfolioHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.manager.Summarize())
}

// acceptHandler handles the user accepting a suggestion.
func (s *APIServer) acceptHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "missing symbol", http.StatusBadRequest)
		return
	}

	pos, alerts, err := s.manager.Accept(symbol)
	if err != nil {
		s.writeManagerError(w, err)
		return
	}
	for _, a := range alerts {
		s.logger.Info(a.String(), zap.String("alert_kind", string(a.Kind)))
	}
	s.writeJSON(w, pos)
}

// closeHandler handles a manual exit.
func (s *APIServer) closeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "missing symbol", http.StatusBadRequest)
		return
	}

	pos, alerts, err := s.manager.Close(symbol)
	if err != nil {
		s.writeManagerError(w, err)
		return
	}
	for _, a := range alerts {
		s.logger.Info(a.String(), zap.String("alert_kind", string(a.Kind)))
	}
	s.writeJSON(w, pos)
}

// signalHandler accepts a signal from an external analysis pipeline.
func (s *APIServer) signalHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.signals == nil {
		http.Error(w, "signal intake not enabled", http.StatusServiceUnavailable)
		return
	}

	var sig position.SignalData
	if err := json.NewDecoder(r.Body).Decode(&sig); err != nil {
		http.Error(w, "malformed signal", http.StatusBadRequest)
		return
	}

	s.signals <- sig
	w.WriteHeader(http.StatusAccepted)
}

func (s *APIServer) writeManagerError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, position.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, position.ErrDuplicateSuggestion):
		status = http.StatusConflict
	case errors.Is(err, position.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func (s *APIServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
