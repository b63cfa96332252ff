package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sms-gateway/backend/internal/db"
	"sms-gateway/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const userColumns = `id, username, password_hash, role, valid_upto, phone_number, created_at, updated_at`

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByUsername returns the user with the given username, or nil if not found.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// List returns all users ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.ValidUpto, db.NullString(u.PhoneNumber), u.CreatedAt, u.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	return err
}

// Update updates the existing user record. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = $2, password_hash = $3, role = $4, valid_upto = $5, phone_number = $6, updated_at = $7 WHERE id = $1`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.ValidUpto, db.NullString(u.PhoneNumber), u.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	return err
}

// Delete removes the user row. Devices, messages and entries are left in place.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// UpdatePasswordIfMatch sets a new password hash when the current hash is oldHash.
func (r *PostgresRepository) UpdatePasswordIfMatch(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $3, updated_at = $4 WHERE id = $1 AND password_hash = $2`,
		id, oldHash, newHash, time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdatePhone sets the user's phone number.
func (r *PostgresRepository) UpdatePhone(ctx context.Context, id, phone string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone_number = $2, updated_at = $3 WHERE id = $1`,
		id, db.NullString(phone), time.Now().UTC(),
	)
	return err
}

func scanUser(s db.Scanner) (*domain.User, error) {
	var (
		u     domain.User
		phone sql.NullString
	)
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.ValidUpto, &phone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.PhoneNumber = phone.String
	return &u, nil
}
