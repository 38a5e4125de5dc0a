package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
)

const (
	ActivityBatchSize    = 50
	ActivityBatchTimeout = 2 * time.Second
	ActivityPollTimeout  = 1 * time.Second
)

// ActivityWorker drains the activity-event queue and batch-persists rows
// into the activity log. Handlers never write the log directly.
type ActivityWorker struct {
	activityRepo *repository.ActivityRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewActivityWorker creates a new ActivityWorker.
func NewActivityWorker(activityRepo *repository.ActivityRepository, rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		activityRepo: activityRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "activity_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ActivityWorker started")

	batch := make([]*model.ActivityEvent, 0, ActivityBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ActivityBatchSize || time.Since(lastFlush) >= ActivityBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ActivityPollTimeout, config.WorkerKey.ActivityEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var e model.ActivityEvent
			if err := json.Unmarshal([]byte(item[1]), &e); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &e)
		}
	}
}

// flushSafe attempts a bulk insert and degrades to per-row persistence.
// Rows that still fail are requeued so nothing is silently dropped.
func (w *ActivityWorker) flushSafe(ctx context.Context, batch []*model.ActivityEvent) {
	if len(batch) == 0 {
		return
	}

	if err := w.activityRepo.BulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk activity insert failed, using fallback")

		for _, e := range batch {
			if err := w.activityRepo.InsertSingle(ctx, e); err != nil {
				w.log.Error().Err(err).Msg("InsertSingle failed — requeueing")
				raw, _ := json.Marshal(e)
				w.rdb.RPush(ctx, config.WorkerKey.ActivityEventsQueue, raw)
			}
		}
	}
}
