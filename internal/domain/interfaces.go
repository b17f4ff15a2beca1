package domain

import "context"

// QuoteProvider fetches the current quote for a single symbol.
// Implementations own the per-request timeout.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

// HistoryProvider fetches daily closes for the last days days, ordered by date
type HistoryProvider interface {
	FetchHistory(ctx context.Context, symbol string, days int) ([]PricePoint, error)
}

// NameResolver resolves a display name for a symbol.
// Implementations return the symbol itself when no name is available.
type NameResolver interface {
	FetchName(ctx context.Context, symbol string) string
}

// MarketDataProvider is the full external market-data collaborator
type MarketDataProvider interface {
	QuoteProvider
	HistoryProvider
	NameResolver
}
