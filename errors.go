package papertrader

import "errors"

// Error categories of the pipeline. Callers match them with errors.Is; every
// returned error wraps exactly one of these sentinels with the offending
// values in its message.
var (
	// ErrMalformedCandidate marks candidate input that cannot be ranked:
	// an empty symbol or a non-finite numeric field.
	ErrMalformedCandidate = errors.New("malformed candidate")

	// ErrInvalidConfig marks a configuration rejected at a boundary check,
	// such as a non-positive equity or a risk fraction outside (0, 1].
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidOrder marks an order with non-positive shares or price.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInsufficientFunds marks a buy whose cost exceeds available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoPosition marks a sell or mark against a symbol not currently held.
	ErrNoPosition = errors.New("no position")

	// ErrOversell marks a sell of more shares than currently held.
	ErrOversell = errors.New("oversell")
)
