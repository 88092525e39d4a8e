package position

import (
	"fmt"
	"time"
)

// SignalData is the directional signal handed in by the analysis
// pipeline. The manager validates only price positivity and direction;
// Strength is clamped to [0,100] before use.
type SignalData struct {
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"signal_type"`
	Price     float64   `json:"price"`
	Strength  int       `json:"strength"`
	Timestamp time.Time `json:"timestamp"`
}

// validate checks the fields the core cares about and returns the
// clamped confidence.
func (s SignalData) validate() (int, error) {
	if s.Price <= 0 {
		return 0, fmt.Errorf("%w: non-positive price %v for %s", ErrInvalidInput, s.Price, s.Symbol)
	}
	if s.Direction != Buy && s.Direction != Sell {
		return 0, fmt.Errorf("%w: unknown direction %q for %s", ErrInvalidInput, s.Direction, s.Symbol)
	}

	confidence := s.Strength
	if confidence < 0 {
		confidence = 0
	} else if confidence > 100 {
		confidence = 100
	}
	return confidence, nil
}
