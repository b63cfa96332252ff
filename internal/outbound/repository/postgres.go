package repository

import (
	"context"
	"database/sql"

	"sms-gateway/backend/internal/db"
	"sms-gateway/backend/internal/outbound/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an outbound queue repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const outboundColumns = `id, user_id, device_id, to_number, message, sim_slot, sent, created_at`

func (r *PostgresRepository) Create(ctx context.Context, o *domain.OutboundSMS) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO outbound_sms (`+outboundColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, db.NullString(o.UserID), o.DeviceID, o.ToNumber, o.Message, o.SimSlot, o.Sent, o.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) ListPendingByDevice(ctx context.Context, deviceID string) ([]*domain.OutboundSMS, error) {
	return r.list(ctx, `SELECT `+outboundColumns+` FROM outbound_sms WHERE device_id = $1 AND NOT sent ORDER BY created_at ASC`, deviceID)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.OutboundSMS, error) {
	return r.list(ctx, `SELECT `+outboundColumns+` FROM outbound_sms WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM outbound_sms WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]*domain.OutboundSMS, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.OutboundSMS{}
	for rows.Next() {
		var (
			o      domain.OutboundSMS
			userID sql.NullString
		)
		if err := rows.Scan(&o.ID, &userID, &o.DeviceID, &o.ToNumber, &o.Message, &o.SimSlot, &o.Sent, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.UserID = userID.String
		out = append(out, &o)
	}
	return out, rows.Err()
}
