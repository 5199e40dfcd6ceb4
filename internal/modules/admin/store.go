// README: Admin analytics store backed by PostgreSQL.
package admin

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Totals(ctx context.Context) (Analytics, error) {
	var a Analytics
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'rider'),
			(SELECT COUNT(*) FROM users WHERE role = 'driver'),
			(SELECT COUNT(*) FROM rides),
			(SELECT COALESCE(SUM(fare), 0) FROM rides WHERE status = 'completed')`,
	).Scan(&a.TotalRiders, &a.TotalDrivers, &a.TotalRides, &a.TotalRevenue.Amount)
	if err != nil {
		return Analytics{}, err
	}
	a.TotalRevenue.Currency = "USD"
	return a, nil
}
