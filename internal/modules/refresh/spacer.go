package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
)

// Spacer enforces a minimum interval between provider requests.
// Callers reserve the next free slot and are delayed, never rejected.
type Spacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	now      func() time.Time
}

// NewSpacer creates a spacer; a non-positive interval disables spacing
func NewSpacer(interval time.Duration) *Spacer {
	return &Spacer{interval: interval, now: time.Now}
}

// Wait blocks until the caller's reserved slot arrives or ctx is done
func (s *Spacer) Wait(ctx context.Context) error {
	if s.interval <= 0 {
		return ctx.Err()
	}

	s.mu.Lock()
	now := s.now()
	slot := s.next
	if slot.Before(now) {
		slot = now
	}
	s.next = slot.Add(s.interval)
	s.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SpacedHistory is a HistoryProvider whose requests share a Spacer with
// the quote fetches
type SpacedHistory struct {
	history domain.HistoryProvider
	spacer  *Spacer
}

// NewSpacedHistory wraps history so every request waits for a slot
func NewSpacedHistory(history domain.HistoryProvider, spacer *Spacer) *SpacedHistory {
	return &SpacedHistory{history: history, spacer: spacer}
}

// FetchHistory waits for the next request slot, then fetches
func (h *SpacedHistory) FetchHistory(ctx context.Context, symbol string, days int) ([]domain.PricePoint, error) {
	if err := h.spacer.Wait(ctx); err != nil {
		return nil, err
	}
	return h.history.FetchHistory(ctx, symbol, days)
}
