// README: Driver registry service: availability, approval, eligibility gate, earnings.
package driver

import (
	"context"
	"errors"

	"hail/internal/types"
)

var (
	ErrNotFound    = errors.New("driver profile not found")
	ErrNotApproved = errors.New("driver is not approved to go online")
	ErrBadRequest  = errors.New("bad request")
)

// Store is the persistence port for driver profiles.
type Store interface {
	Create(ctx context.Context, d *Driver) error
	Get(ctx context.Context, userID types.ID) (*Driver, error)
	// SetAvailability updates availability and reports whether a profile existed.
	SetAvailability(ctx context.Context, userID types.ID, a Availability) (bool, error)
	// SetApproval updates approval in one write; suspension forces availability
	// to offline in the same statement.
	SetApproval(ctx context.Context, userID types.ID, s ApprovalStatus) (bool, error)
	// List returns driver profiles joined with account data matching search,
	// plus the total count.
	List(ctx context.Context, search string, offset, limit int) ([]Account, int, error)
}

// EarningsSource aggregates completed ride fares. Implemented by the ride store.
type EarningsSource interface {
	EarningsForDriver(ctx context.Context, driverID types.ID) (Earnings, error)
	MonthlyEarningsForDriver(ctx context.Context, driverID types.ID) ([]MonthlyEarnings, error)
}

// Account is a driver profile joined with its owning user account,
// as shown in admin listings.
type Account struct {
	Driver
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Service struct {
	store    Store
	earnings EarningsSource
}

func NewService(store Store, earnings EarningsSource) *Service {
	return &Service{store: store, earnings: earnings}
}

func (s *Service) Get(ctx context.Context, userID types.ID) (*Driver, error) {
	return s.store.Get(ctx, userID)
}

// CreateProfile registers a new driver profile in the pending/offline state.
func (s *Service) CreateProfile(ctx context.Context, userID types.ID, vehicleDetails, licenseNumber string) error {
	if userID == "" || vehicleDetails == "" || licenseNumber == "" {
		return ErrBadRequest
	}
	return s.store.Create(ctx, &Driver{
		UserID:         userID,
		VehicleDetails: vehicleDetails,
		LicenseNumber:  licenseNumber,
		Approval:       ApprovalPending,
		Availability:   AvailabilityOffline,
	})
}

// SetAvailability is driver-initiated. Going online requires an approved profile.
func (s *Service) SetAvailability(ctx context.Context, userID types.ID, a Availability) (*Driver, error) {
	if a != AvailabilityOnline && a != AvailabilityOffline {
		return nil, ErrBadRequest
	}
	d, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a == AvailabilityOnline && d.Approval != ApprovalApproved {
		return nil, ErrNotApproved
	}
	ok, err := s.store.SetAvailability(ctx, userID, a)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	d.Availability = a
	return d, nil
}

// SetApproval is admin-initiated. Suspension forces the driver offline
// atomically with the approval update.
func (s *Service) SetApproval(ctx context.Context, userID types.ID, status ApprovalStatus) (*Driver, error) {
	if status != ApprovalApproved && status != ApprovalSuspended {
		return nil, ErrBadRequest
	}
	ok, err := s.store.SetApproval(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, userID)
}

// Eligible reports whether the user may poll for and accept ride requests.
// A missing profile is simply not eligible.
func (s *Service) Eligible(ctx context.Context, userID types.ID) (bool, error) {
	d, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return d.Eligible(), nil
}

func (s *Service) Earnings(ctx context.Context, userID types.ID) (Earnings, error) {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return Earnings{}, err
	}
	return s.earnings.EarningsForDriver(ctx, userID)
}

func (s *Service) MonthlyEarnings(ctx context.Context, userID types.ID) ([]MonthlyEarnings, error) {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.earnings.MonthlyEarningsForDriver(ctx, userID)
}

func (s *Service) List(ctx context.Context, search string, offset, limit int) ([]Account, int, error) {
	return s.store.List(ctx, search, offset, limit)
}
