package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
)

// PriceRefresher refreshes the stock catalog. *service.MarketService implements it.
type PriceRefresher interface {
	Refresh(ctx context.Context) (market.RefreshResult, error)
}

// Snapshotter records performance samples. *service.LedgerService implements it.
type Snapshotter interface {
	SnapshotAll(ctx context.Context) (int, error)
}

// PriceRefreshJob pulls the latest quotes of every catalog stock.
type PriceRefreshJob struct {
	refresher PriceRefresher
	log       zerolog.Logger
}

// NewPriceRefreshJob creates a new price refresh job
func NewPriceRefreshJob(refresher PriceRefresher, log zerolog.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		refresher: refresher,
		log:       log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Run refreshes the catalog. Symbols that fail are logged by the refresher
// and do not fail the job.
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	result, err := j.refresher.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		j.log.Warn().Int("failed", len(result.Failed)).Msg("Some prices were not refreshed")
	}
	return nil
}

// SnapshotJob records the net worth of every ledger.
type SnapshotJob struct {
	snapshotter Snapshotter
	log         zerolog.Logger
}

// NewSnapshotJob creates a new performance snapshot job
func NewSnapshotJob(snapshotter Snapshotter, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		snapshotter: snapshotter,
		log:         log.With().Str("job", "performance_snapshot").Logger(),
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "performance_snapshot"
}

// Run records one performance sample per ledger.
func (j *SnapshotJob) Run(ctx context.Context) error {
	n, err := j.snapshotter.SnapshotAll(ctx)
	j.log.Info().Int("recorded", n).Msg("Performance snapshot taken")
	return err
}
