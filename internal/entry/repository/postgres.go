package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"sms-gateway/backend/internal/db"
	"sms-gateway/backend/internal/entry/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an entry repository that stores documents as JSONB.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const entryColumns = `id, entry_key, user_id, device_id, data, created_at, updated_at`

func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*domain.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE entry_key = $1`, key)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// Upsert merges with the jsonb || operator, so fields absent from e keep their stored values.
func (r *PostgresRepository) Upsert(ctx context.Context, e *domain.Entry) (bool, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return false, err
	}
	var created bool
	err = r.db.QueryRowContext(ctx, `
INSERT INTO entries (`+entryColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (entry_key) DO UPDATE SET
	data = entries.data || EXCLUDED.data,
	user_id = COALESCE(EXCLUDED.user_id, entries.user_id),
	device_id = COALESCE(EXCLUDED.device_id, entries.device_id),
	updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0)`,
		e.ID, e.Key, db.NullString(e.UserID), db.NullString(e.DeviceID), data, e.CreatedAt, e.UpdatedAt,
	).Scan(&created)
	return created, err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Entry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM entries WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostgresRepository) ListByUserAndDevice(ctx context.Context, userID, deviceID string) ([]*domain.Entry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM entries WHERE user_id = $1 AND device_id = $2 ORDER BY created_at DESC`, userID, deviceID)
}

func (r *PostgresRepository) DeleteForUser(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM entries WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(s db.Scanner) (*domain.Entry, error) {
	var (
		e                domain.Entry
		userID, deviceID sql.NullString
		data             []byte
	)
	if err := s.Scan(&e.ID, &e.Key, &userID, &deviceID, &data, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.UserID = userID.String
	e.DeviceID = deviceID.String
	if err := json.Unmarshal(data, &e.Data); err != nil {
		return nil, err
	}
	return &e, nil
}
