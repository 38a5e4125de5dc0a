package repository

import (
	"context"
	"time"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository persists activity-log rows. Writes arrive in batches
// from the activity worker, not from request handlers.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// BulkInsert writes a batch of activity events in one statement via UNNEST.
func (r *ActivityRepository) BulkInsert(ctx context.Context, events []*model.ActivityEvent) error {
	n := len(events)
	actions := make([]string, 0, n)
	details := make([][]byte, 0, n)
	ats := make([]time.Time, 0, n)

	for _, e := range events {
		actions = append(actions, e.Action)
		details = append(details, e.Detail)
		ats = append(ats, e.At)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (action, detail, created_at)
		 SELECT u.action, u.detail, u.created_at
		 FROM UNNEST($1::text[], $2::jsonb[], $3::timestamptz[]) AS u (action, detail, created_at)`,
		actions, details, ats)
	return err
}

// InsertSingle writes one activity event. Fallback path when a bulk insert
// fails and the batch is replayed row by row.
func (r *ActivityRepository) InsertSingle(ctx context.Context, e *model.ActivityEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (action, detail, created_at) VALUES ($1, $2, $3)`,
		e.Action, e.Detail, e.At)
	return err
}
