package repository

import (
	"context"
	"database/sql"

	"sms-gateway/backend/internal/db"
	"sms-gateway/backend/internal/message/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a message repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const messageColumns = `id, seq, user_id, device_id, body, sender, sim_number, sim_slot, created_at`

// Create inserts the message and fills in the storage-assigned Seq.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Message) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO messages (id, user_id, device_id, body, sender, sim_number, sim_slot, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING seq`,
		m.ID, db.NullString(m.UserID), m.DeviceID, m.Body, m.Sender, m.SimNumber, m.SimSlot, m.CreatedAt,
	).Scan(&m.Seq)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages WHERE user_id = $1 ORDER BY created_at DESC, seq DESC`, userID)
}

func (r *PostgresRepository) ListByUserAndDevice(ctx context.Context, userID, deviceID string) ([]*domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages WHERE user_id = $1 AND device_id = $2 ORDER BY created_at DESC, seq DESC`, userID, deviceID)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM messages WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM messages WHERE user_id = $1 AND device_id = $2`, userID, deviceID)
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM messages WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// TrimUser keeps the newest keep rows of the user. The OFFSET subquery finds the rows past the window.
func (r *PostgresRepository) TrimUser(ctx context.Context, userID string, keep int) (int64, error) {
	return r.exec(ctx, `
DELETE FROM messages WHERE id IN (
	SELECT id FROM messages WHERE user_id = $1
	ORDER BY created_at DESC, seq DESC
	OFFSET $2
)`, userID, keep)
}

// TrimDevice keeps the newest keep rows of the device.
func (r *PostgresRepository) TrimDevice(ctx context.Context, deviceID string, keep int) (int64, error) {
	return r.exec(ctx, `
DELETE FROM messages WHERE id IN (
	SELECT id FROM messages WHERE device_id = $1
	ORDER BY created_at DESC, seq DESC
	OFFSET $2
)`, deviceID, keep)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Message{}
	for rows.Next() {
		var (
			m      domain.Message
			userID sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Seq, &userID, &m.DeviceID, &m.Body, &m.Sender, &m.SimNumber, &m.SimSlot, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.UserID = userID.String
		out = append(out, &m)
	}
	return out, rows.Err()
}
