package rollup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"aigate/internal/store/repositories"
)

// Worker folds raw request-log rows into usage_daily on a fixed interval.
// Rows that fail to roll up keep rolled_at=NULL and are retried on the next
// tick.
type Worker struct {
	usageRepo repositories.UsageRepository
	pollEvery time.Duration
	batch     int
}

func NewWorker(usageRepo repositories.UsageRepository) *Worker {
	return &Worker{usageRepo: usageRepo, pollEvery: time.Minute, batch: 500}
}

func (w *Worker) Run(ctx context.Context) {
	log.Info().Msg("rollup worker: started")
	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("rollup worker: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	logs, err := w.usageRepo.FetchUnrolled(ctx, w.batch)
	if err != nil {
		log.Error().Err(err).Msg("rollup worker: fetch failed")
		return
	}
	if len(logs) == 0 {
		return
	}
	if err := w.usageRepo.ApplyRollup(ctx, logs); err != nil {
		log.Error().Err(err).Int("rows", len(logs)).Msg("rollup worker: apply failed")
		return
	}
	log.Debug().Int("rows", len(logs)).Msg("rollup worker: rolled up")
}
