package scheduler

import (
	"context"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/refresh"
)

// PriceRefresher runs a full refresh batch
type PriceRefresher interface {
	RefreshAll(ctx context.Context, trigger refresh.Trigger) *refresh.Result
}

// PriceRefreshJob refreshes every watched and held stock
type PriceRefreshJob struct {
	refresher PriceRefresher
}

// NewPriceRefreshJob creates the recurring price refresh job
func NewPriceRefreshJob(refresher PriceRefresher) *PriceRefreshJob {
	return &PriceRefreshJob{refresher: refresher}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string { return "price_refresh" }

// Run executes one scheduled refresh. Per-symbol failures are part of the
// result, not job errors.
func (j *PriceRefreshJob) Run() error {
	j.refresher.RefreshAll(context.Background(), refresh.TriggerScheduled)
	return nil
}

// IndexRefresher refreshes market index values
type IndexRefresher interface {
	Refresh(ctx context.Context) []domain.MarketIndex
}

// IndexRefreshJob refreshes market indices
type IndexRefreshJob struct {
	indices IndexRefresher
	timeout time.Duration
}

// NewIndexRefreshJob creates the index refresh job; timeout bounds one run
func NewIndexRefreshJob(indices IndexRefresher, timeout time.Duration) *IndexRefreshJob {
	return &IndexRefreshJob{indices: indices, timeout: timeout}
}

// Name returns the job name
func (j *IndexRefreshJob) Name() string { return "index_refresh" }

// Run executes one index refresh
func (j *IndexRefreshJob) Run() error {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	j.indices.Refresh(ctx)
	return nil
}

// WatchlistSeeder adds the initial watchlist symbols
type WatchlistSeeder interface {
	Seed(ctx context.Context, symbols []string) int
}

// WatchlistSeedJob seeds the watchlist once at startup
type WatchlistSeedJob struct {
	seeder  WatchlistSeeder
	symbols []string
}

// NewWatchlistSeedJob creates the one-shot seeding job
func NewWatchlistSeedJob(seeder WatchlistSeeder, symbols []string) *WatchlistSeedJob {
	return &WatchlistSeedJob{seeder: seeder, symbols: symbols}
}

// Name returns the job name
func (j *WatchlistSeedJob) Name() string { return "watchlist_seed" }

// Run seeds the watchlist
func (j *WatchlistSeedJob) Run() error {
	return j.RunContext(context.Background())
}

// RunContext seeds the watchlist until ctx is cancelled. Symbols not yet
// fetched when ctx ends are skipped and ctx's error is returned.
func (j *WatchlistSeedJob) RunContext(ctx context.Context) error {
	j.seeder.Seed(ctx, j.symbols)
	return ctx.Err()
}
