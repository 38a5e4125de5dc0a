package repository

import (
	"context"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeviceRepository handles sync-client registration rows.
type DeviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository creates a new DeviceRepository.
func NewDeviceRepository(pool *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{pool: pool}
}

// Upsert registers a device or refreshes its name if the UUID is already
// known. Re-registration is the normal path after a client reinstall.
func (r *DeviceRepository) Upsert(ctx context.Context, d *model.Device) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO devices (device_uuid, name)
		 VALUES ($1, $2)
		 ON CONFLICT (device_uuid) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, registered_at`,
		d.DeviceUUID, d.Name,
	).Scan(&d.ID, &d.RegisteredAt)
}

// GetByUUID retrieves a device by its client-generated UUID.
func (r *DeviceRepository) GetByUUID(ctx context.Context, deviceUUID string) (*model.Device, error) {
	d := &model.Device{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, device_uuid, name, registered_at FROM devices WHERE device_uuid = $1`,
		deviceUUID,
	).Scan(&d.ID, &d.DeviceUUID, &d.Name, &d.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}
