// README: Admin aggregation service: dashboard totals over accounts and rides.
package admin

import (
	"context"

	"hail/internal/types"
)

// Analytics is the dashboard summary: plain counts and a completed-fare sum,
// no state-machine logic involved.
type Analytics struct {
	TotalRiders  int         `json:"totalRiders"`
	TotalDrivers int         `json:"totalDrivers"`
	TotalRides   int         `json:"totalRides"`
	TotalRevenue types.Money `json:"totalRevenue"`
}

type Store interface {
	Totals(ctx context.Context) (Analytics, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Dashboard(ctx context.Context) (Analytics, error) {
	return s.store.Totals(ctx)
}
