package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
)

const (
	RatingBatchSize    = 50
	RatingBatchTimeout = 2 * time.Second
	RatingPollTimeout  = 1 * time.Second
)

// RatingWorker consumes rating refresh events and recomputes the cached
// summaries. Events for the same target are deduplicated per batch, so a
// burst of ratings on one lecture costs one recompute.
type RatingWorker struct {
	ratings *service.RatingService
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewRatingWorker creates a new RatingWorker.
func NewRatingWorker(ratings *service.RatingService, rdb *redis.Client, log zerolog.Logger) *RatingWorker {
	return &RatingWorker{
		ratings: ratings,
		rdb:     rdb,
		log:     log.With().Str("component", "rating_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *RatingWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RatingWorker started")

	batch := make([]service.RatingEvent, 0, RatingBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= RatingBatchSize || time.Since(lastFlush) >= RatingBatchTimeout) {

			w.flush(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, RatingPollTimeout, config.WorkerKey.RatingEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var event service.RatingEvent
			if err := json.Unmarshal([]byte(item[1]), &event); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, event)
		}
	}
}

// flush recomputes each distinct target in the batch once.
func (w *RatingWorker) flush(ctx context.Context, batch []service.RatingEvent) {
	if len(batch) == 0 {
		return
	}

	type targetKey struct {
		target   model.RatingTarget
		targetID string
	}
	seen := make(map[targetKey]service.RatingEvent, len(batch))
	for _, event := range batch {
		seen[targetKey{event.Target, event.TargetID.String()}] = event
	}

	for _, event := range seen {
		if _, err := w.ratings.RefreshSummary(ctx, event.Target, event.TargetID); err != nil {
			w.log.Error().Err(err).
				Str("target", string(event.Target)).
				Str("target_id", event.TargetID.String()).
				Msg("Summary refresh failed, requeueing")
			raw, _ := json.Marshal(event)
			w.rdb.RPush(ctx, config.WorkerKey.RatingEventsQueue, raw)
		}
	}

	w.log.Debug().Int("events", len(batch)).Int("targets", len(seen)).Msg("Rating batch flushed")
}
