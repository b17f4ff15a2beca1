package domain

import "errors"

var (
	// ErrUnknownSymbol is returned when the provider has no data for a symbol
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrInvalidSymbol is returned for empty or malformed symbol input
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrProviderUnavailable covers network failures, timeouts and non-2xx responses
	ErrProviderUnavailable = errors.New("market data provider unavailable")
)
