// README: Ride store backed by PostgreSQL; conditional writes keep transitions single-winner.
package ride

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/modules/driver"
	"hail/internal/types"
)

// Partial unique index names from migrations/0001_init.sql. Violations are the
// storage-level backstop for the one-open-ride constraints.
const (
	oneActivePerDriverIdx = "rides_one_active_per_driver"
	oneOpenPerRiderIdx    = "rides_one_open_per_rider"
)

const rideColumns = `
	id, rider_id, driver_id, status,
	pickup_lat, pickup_lng, destination_lat, destination_lng,
	fare, created_at, updated_at`

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, r *Ride, first Event) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO rides (
			id, rider_id, driver_id, status,
			pickup_lat, pickup_lng, destination_lat, destination_lng,
			fare, created_at, updated_at
		) VALUES ($1, $2, NULL, $3, $4, $5, $6, $7, $8, $9, $9)`,
		string(r.ID),
		string(r.RiderID),
		string(r.Status),
		r.Pickup.Lat, r.Pickup.Lng,
		r.Destination.Lat, r.Destination.Lng,
		r.Fare.Amount,
		r.CreatedAt,
	)
	if isUniqueViolation(err, oneOpenPerRiderIdx) {
		return ErrActiveRide
	}
	if err != nil {
		return err
	}

	if err := appendEvent(ctx, tx, first); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))
	return scanRide(row)
}

// Claim assigns the driver and moves requested → accepted in one conditional
// write; the history append commits in the same transaction. The partial
// unique index on driver_id turns a same-driver race into ErrDriverBusy.
func (s *PGStore) Claim(ctx context.Context, id, driverID types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET driver_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4 AND driver_id IS NULL`,
		string(driverID), string(StatusAccepted), string(id), string(StatusRequested),
	)
	if isUniqueViolation(err, oneActivePerDriverIdx) {
		return false, ErrDriverBusy
	}
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	if err := appendEvent(ctx, tx, Event{RideID: id, Status: StatusAccepted}); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *PGStore) Transition(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(to), string(id), string(from),
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	if err := appendEvent(ctx, tx, Event{RideID: id, Status: to}); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *PGStore) HasOpenByRider(ctx context.Context, riderID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM rides
			WHERE rider_id = $1
			  AND status IN ('requested','accepted','picked_up','in_transit')
		)`, string(riderID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PGStore) HasActiveByDriver(ctx context.Context, driverID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM rides
			WHERE driver_id = $1
			  AND status IN ('accepted','picked_up','in_transit')
		)`, string(driverID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PGStore) ListRequested(ctx context.Context) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE status = 'requested'
		ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRides(rows)
}

func (s *PGStore) ActiveByDriver(ctx context.Context, driverID types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE driver_id = $1
		  AND status IN ('accepted','picked_up','in_transit')`,
		string(driverID),
	)
	return scanRide(row)
}

func (s *PGStore) ActiveByRider(ctx context.Context, riderID types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE rider_id = $1
		  AND status IN ('accepted','picked_up','in_transit')`,
		string(riderID),
	)
	return scanRide(row)
}

func (s *PGStore) ListByRider(ctx context.Context, riderID types.ID, f Filter) ([]Ride, int, error) {
	return s.list(ctx, `rider_id = $1`, string(riderID), f)
}

func (s *PGStore) ListByDriver(ctx context.Context, driverID types.ID, f Filter) ([]Ride, int, error) {
	return s.list(ctx, `driver_id = $1`, string(driverID), f)
}

func (s *PGStore) List(ctx context.Context, f Filter) ([]Ride, int, error) {
	return s.list(ctx, `$1 = ''`, "", f)
}

func (s *PGStore) list(ctx context.Context, ownerCond, owner string, f Filter) ([]Ride, int, error) {
	var status string
	if f.Status != nil {
		status = string(*f.Status)
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE (`+ownerCond+`)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4`,
		owner, status, f.Offset, f.Limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rides, err := scanRides(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM rides
		WHERE (`+ownerCond+`)
		  AND ($2 = '' OR status = $2)`,
		owner, status,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return rides, total, nil
}

func (s *PGStore) History(ctx context.Context, rideID types.ID) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, ride_id, status, created_at
		FROM ride_status_events
		WHERE ride_id = $1
		ORDER BY id ASC`, string(rideID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.RideID, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// EarningsForDriver implements driver.EarningsSource.
func (s *PGStore) EarningsForDriver(ctx context.Context, driverID types.ID) (driver.Earnings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(fare), 0), COUNT(*)
		FROM rides
		WHERE driver_id = $1 AND status = 'completed'`,
		string(driverID),
	)
	var e driver.Earnings
	if err := row.Scan(&e.Total.Amount, &e.CompletedRides); err != nil {
		return driver.Earnings{}, err
	}
	e.Total.Currency = "USD"
	return e, nil
}

// MonthlyEarningsForDriver implements driver.EarningsSource.
func (s *PGStore) MonthlyEarningsForDriver(ctx context.Context, driverID types.ID) ([]driver.MonthlyEarnings, error) {
	rows, err := s.db.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int,
		       EXTRACT(MONTH FROM created_at)::int,
		       COALESCE(SUM(fare), 0),
		       COUNT(*)
		FROM rides
		WHERE driver_id = $1 AND status = 'completed'
		GROUP BY 1, 2
		ORDER BY 1, 2`,
		string(driverID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []driver.MonthlyEarnings
	for rows.Next() {
		var m driver.MonthlyEarnings
		if err := rows.Scan(&m.Year, &m.Month, &m.Total.Amount, &m.Rides); err != nil {
			return nil, err
		}
		m.Total.Currency = "USD"
		out = append(out, m)
	}
	return out, rows.Err()
}

func appendEvent(ctx context.Context, tx pgx.Tx, e Event) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO ride_status_events (ride_id, status, created_at)
		VALUES ($1, $2, $3)`,
		string(e.RideID), string(e.Status), created,
	)
	return err
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var driverID sql.NullString
	err := row.Scan(
		&r.ID, &r.RiderID, &driverID, &r.Status,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.Destination.Lat, &r.Destination.Lng,
		&r.Fare.Amount, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if driverID.Valid {
		d := types.ID(driverID.String)
		r.DriverID = &d
	}
	r.Fare.Currency = "USD"
	return &r, nil
}

func scanRides(rows pgx.Rows) ([]Ride, error) {
	var rides []Ride
	for rows.Next() {
		var r Ride
		var driverID sql.NullString
		if err := rows.Scan(
			&r.ID, &r.RiderID, &driverID, &r.Status,
			&r.Pickup.Lat, &r.Pickup.Lng, &r.Destination.Lat, &r.Destination.Lng,
			&r.Fare.Amount, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if driverID.Valid {
			d := types.ID(driverID.String)
			r.DriverID = &d
		}
		r.Fare.Currency = "USD"
		rides = append(rides, r)
	}
	return rides, rows.Err()
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}
