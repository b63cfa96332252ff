package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sms-gateway/backend/internal/db"
	"sms-gateway/backend/internal/device/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a device repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const deviceColumns = `id, user_id, device_id, manufacturer, model, brand, os_version, sdk_version, carrier_name,
	sim_slot_count, network_type, phone_number, slot1_number, slot2_number, battery_level, last_active, is_active, created_at`

// Upsert writes the snapshot. On conflict the existing row keeps its id, created_at and, when the
// snapshot carries none, its owner. xmax is zero only for freshly inserted tuples.
func (r *PostgresRepository) Upsert(ctx context.Context, d *domain.Device) (bool, error) {
	var created bool
	err := r.db.QueryRowContext(ctx, `
INSERT INTO devices (`+deviceColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
ON CONFLICT (device_id) DO UPDATE SET
	user_id = COALESCE(EXCLUDED.user_id, devices.user_id),
	manufacturer = EXCLUDED.manufacturer,
	model = EXCLUDED.model,
	brand = EXCLUDED.brand,
	os_version = EXCLUDED.os_version,
	sdk_version = EXCLUDED.sdk_version,
	carrier_name = EXCLUDED.carrier_name,
	sim_slot_count = EXCLUDED.sim_slot_count,
	network_type = EXCLUDED.network_type,
	phone_number = EXCLUDED.phone_number,
	slot1_number = EXCLUDED.slot1_number,
	slot2_number = EXCLUDED.slot2_number,
	battery_level = EXCLUDED.battery_level,
	last_active = EXCLUDED.last_active,
	is_active = EXCLUDED.is_active
RETURNING (xmax = 0)`,
		d.ID, db.NullString(d.UserID), d.DeviceID, d.Manufacturer, d.Model, d.Brand, d.OSVersion, d.SDKVersion,
		d.CarrierName, d.SimSlotCount, d.NetworkType, d.PhoneNumber, d.Slot1Number, d.Slot2Number,
		d.BatteryLevel, d.LastActive, d.IsActive, d.CreatedAt,
	).Scan(&created)
	return created, err
}

// GetByDeviceID returns the device for deviceID regardless of owner, or nil if not found.
func (r *PostgresRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domain.Device, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE device_id = $1`, deviceID)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// GetForUser returns the device for deviceID owned by userID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetForUser(ctx context.Context, userID, deviceID string) (*domain.Device, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE device_id = $1 AND user_id = $2`, deviceID, userID)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// ListByUser returns the user's devices ordered by last activity, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Device, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE user_id = $1 ORDER BY last_active DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteForUser removes the device. Deleting a missing device is not an error.
func (r *PostgresRepository) DeleteForUser(ctx context.Context, userID, deviceID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE device_id = $1 AND user_id = $2`, deviceID, userID)
	return err
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM devices WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// MarkInactiveBefore runs the liveness sweep as one statement.
func (r *PostgresRepository) MarkInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE devices SET is_active = FALSE WHERE is_active AND last_active < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanDevice(s db.Scanner) (*domain.Device, error) {
	var (
		d      domain.Device
		userID sql.NullString
	)
	err := s.Scan(&d.ID, &userID, &d.DeviceID, &d.Manufacturer, &d.Model, &d.Brand, &d.OSVersion, &d.SDKVersion,
		&d.CarrierName, &d.SimSlotCount, &d.NetworkType, &d.PhoneNumber, &d.Slot1Number, &d.Slot2Number,
		&d.BatteryLevel, &d.LastActive, &d.IsActive, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.UserID = userID.String
	return &d, nil
}
