package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NotifyService fans out side-channel signals: sync-change hints over Redis
// PubSub for connected WebSocket clients, and activity events onto the
// worker queue. Both are best-effort — a Redis failure is logged and never
// fails the originating request.
type NotifyService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewNotifyService creates a new NotifyService.
func NewNotifyService(rdb *redis.Client, log zerolog.Logger) *NotifyService {
	return &NotifyService{
		rdb: rdb,
		log: log.With().Str("component", "notify_service").Logger(),
	}
}

// SyncChangedHint is the message published after a reference-data mutation.
type SyncChangedHint struct {
	Event      string    `json:"event"`
	Entity     string    `json:"entity"`
	ServerTime time.Time `json:"server_time"`
}

// PublishSyncChanged tells connected clients that entity rows changed and a
// delta pull is worthwhile. Delivery is best-effort; polling still works.
func (s *NotifyService) PublishSyncChanged(ctx context.Context, entity string) {
	hint := SyncChangedHint{
		Event:      "changed",
		Entity:     entity,
		ServerTime: time.Now().UTC(),
	}
	payload, _ := json.Marshal(hint)

	if err := s.rdb.Publish(ctx, config.CacheKey.SyncNotifyChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("entity", entity).Msg("Sync hint publish failed")
	}
}

// QueueActivity pushes an activity event onto the worker queue.
func (s *NotifyService) QueueActivity(ctx context.Context, action string, detail interface{}) {
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("Activity detail marshal failed")
		return
	}

	event := model.ActivityEvent{
		Action: action,
		Detail: detailJSON,
		At:     time.Now().UTC(),
	}
	payload, _ := json.Marshal(event)

	if err := s.rdb.RPush(ctx, config.WorkerKey.ActivityEventsQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("Activity enqueue failed")
	}
}
