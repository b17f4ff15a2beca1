package di

import (
	"fmt"

	"github.com/aristath/stockwatch/internal/config"
	"github.com/aristath/stockwatch/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the scheduler and registers the recurring jobs.
// The seed job is returned unscheduled; the entrypoint runs it once.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	container.Scheduler = scheduler.New(log)

	jobs := &JobInstances{
		PriceRefresh:  scheduler.NewPriceRefreshJob(container.RefreshService),
		IndexRefresh:  scheduler.NewIndexRefreshJob(container.IndicesService, cfg.ProviderTimeout*4),
		WatchlistSeed: scheduler.NewWatchlistSeedJob(container.WatchlistService, cfg.WatchlistSeed),
	}

	if err := container.Scheduler.AddJob(cfg.RefreshSchedule, jobs.PriceRefresh); err != nil {
		return nil, fmt.Errorf("failed to register price refresh job: %w", err)
	}
	if err := container.Scheduler.AddJob(cfg.IndicesSchedule, jobs.IndexRefresh); err != nil {
		return nil, fmt.Errorf("failed to register index refresh job: %w", err)
	}

	return jobs, nil
}
