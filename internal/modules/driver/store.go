// README: Driver store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO drivers (user_id, vehicle_details, license_number, approval_status, availability)
		VALUES ($1, $2, $3, $4, $5)`,
		string(d.UserID),
		d.VehicleDetails,
		d.LicenseNumber,
		string(d.Approval),
		string(d.Availability),
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, userID types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, vehicle_details, license_number, approval_status, availability, created_at, updated_at
		FROM drivers
		WHERE user_id = $1`, string(userID),
	)

	var d Driver
	err := row.Scan(&d.UserID, &d.VehicleDetails, &d.LicenseNumber, &d.Approval, &d.Availability, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PGStore) SetAvailability(ctx context.Context, userID types.ID, a Availability) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers
		SET availability = $1, updated_at = NOW()
		WHERE user_id = $2`,
		string(a), string(userID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetApproval updates approval and, on suspension, forces availability offline
// in the same statement so the two fields cannot diverge.
func (s *PGStore) SetApproval(ctx context.Context, userID types.ID, status ApprovalStatus) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers
		SET approval_status = $1,
		    availability = CASE WHEN $1 = 'suspended' THEN 'offline' ELSE availability END,
		    updated_at = NOW()
		WHERE user_id = $2`,
		string(status), string(userID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) List(ctx context.Context, search string, offset, limit int) ([]Account, int, error) {
	pattern := "%" + search + "%"

	rows, err := s.db.Query(ctx, `
		SELECT d.user_id, d.vehicle_details, d.license_number, d.approval_status, d.availability,
		       d.created_at, d.updated_at, u.name, u.email
		FROM drivers d
		JOIN users u ON u.id = d.user_id
		WHERE $1 = '' OR u.name ILIKE $2 OR u.email ILIKE $2
		ORDER BY d.created_at DESC
		OFFSET $3 LIMIT $4`,
		search, pattern, offset, limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(
			&a.UserID, &a.VehicleDetails, &a.LicenseNumber, &a.Approval, &a.Availability,
			&a.CreatedAt, &a.UpdatedAt, &a.Name, &a.Email,
		); err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM drivers d
		JOIN users u ON u.id = d.user_id
		WHERE $1 = '' OR u.name ILIKE $2 OR u.email ILIKE $2`,
		search, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}
