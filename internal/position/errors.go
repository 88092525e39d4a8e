package position

import "errors"

// Sentinel errors returned by the Manager. All of them are recoverable;
// the manager's state is unchanged whenever one is returned.
var (
	// ErrDuplicateSuggestion is returned by Suggest when the symbol
	// already has a suggested or active position.
	ErrDuplicateSuggestion = errors.New("position: symbol already suggested or active")

	// ErrNotFound is returned by operations that presuppose a position
	// in a specific prior state (Accept without a suggestion, Close
	// without an active position). A price update for an untracked
	// symbol is not an error and does not use this.
	ErrNotFound = errors.New("position: no position in the expected state")

	// ErrInvalidInput is returned for non-positive prices and malformed
	// directions.
	ErrInvalidInput = errors.New("position: invalid input")
)
