package domain

import (
	"fmt"
	"strings"
)

// MaxSymbolLength bounds accepted ticker input
const MaxSymbolLength = 12

// NormalizeSymbol trims and upper-cases a ticker and rejects empty,
// over-long or whitespace-containing input.
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSymbol)
	}
	if len(symbol) > MaxSymbolLength {
		return "", fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidSymbol, symbol, MaxSymbolLength)
	}
	if strings.ContainsAny(symbol, " \t\r\n/?&") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return symbol, nil
}
