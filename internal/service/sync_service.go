package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors surfaced to the sync endpoint.
var (
	// ErrSchemaNotMigrated means a reference table is missing: operator
	// action required, the client must not retry.
	ErrSchemaNotMigrated = errors.New("sync schema not migrated")
)

// SyncService implements the server half of the delta-sync protocol.
type SyncService struct {
	syncRepo *repository.SyncRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(syncRepo *repository.SyncRepository, rdb *redis.Client, log zerolog.Logger) *SyncService {
	return &SyncService{
		syncRepo: syncRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "sync_service").Logger(),
	}
}

// Changes returns the full bootstrap (since == nil) or the delta since the
// given watermark. All-or-nothing per invocation: any entity query failing
// fails the whole call.
//
// A row written exactly at the watermark instant may be delivered twice;
// clients apply changes idempotently by overwriting on primary key, so
// at-least-once delivery is safe.
func (s *SyncService) Changes(ctx context.Context, since *time.Time, deviceID int) (*model.SyncResponse, error) {
	resp, err := s.syncRepo.ChangesSince(ctx, since)
	if err != nil {
		if repository.IsUndefinedTable(err) {
			return nil, ErrSchemaNotMigrated
		}
		return nil, fmt.Errorf("collect changes: %w", err)
	}

	// Remember the watermark this device last pulled. Diagnostic only —
	// the client owns its watermark, so a Redis failure is non-fatal.
	if deviceID > 0 {
		if err := s.rdb.Set(ctx, config.CacheKey.DeviceWatermarkKey(deviceID),
			resp.ServerTime.Format(time.RFC3339Nano), 0).Err(); err != nil {
			s.log.Warn().Err(err).Int("device_id", deviceID).Msg("Watermark bookkeeping failed")
		}
	}

	s.log.Debug().
		Int("rows", resp.Changes.Total()).
		Bool("bootstrap", since == nil).
		Int("device_id", deviceID).
		Msg("Sync change set assembled")

	return resp, nil
}
