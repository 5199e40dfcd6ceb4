// README: Ride lifecycle engine: transitions, actor authorization, and the accept claim.
package ride

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hail/internal/observability"
	"hail/internal/types"
)

var (
	ErrNotFound          = errors.New("ride not found")
	ErrForbidden         = errors.New("caller is not allowed to perform this action")
	ErrValidation        = errors.New("invalid ride request")
	ErrInvalidStatus     = errors.New("invalid ride status")
	ErrInvalidTransition = errors.New("status change not allowed from current status")
	ErrDriverBusy        = errors.New("driver already has an active ride")
	ErrRideUnavailable   = errors.New("ride is no longer available")
	ErrActiveRide        = errors.New("rider already has an open ride")
)

// Store is the persistence port for rides and their history log. A committed
// transition must write the status change and the history event as one atomic
// unit, and conditional updates must only apply while the observed status
// still holds.
type Store interface {
	// Create inserts the ride and its first history event atomically.
	Create(ctx context.Context, r *Ride, first Event) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	// Claim atomically assigns the driver and moves requested → accepted.
	// Returns false when the ride was not in requested anymore (lost race),
	// ErrDriverBusy when the driver already holds an active ride.
	Claim(ctx context.Context, id, driverID types.ID) (bool, error)
	// Transition applies from → to plus the history append, only if the ride
	// is still observed in from at commit time.
	Transition(ctx context.Context, id types.ID, from, to Status) (bool, error)
	HasOpenByRider(ctx context.Context, riderID types.ID) (bool, error)
	HasActiveByDriver(ctx context.Context, driverID types.ID) (bool, error)
	ListRequested(ctx context.Context) ([]Ride, error)
	ActiveByDriver(ctx context.Context, driverID types.ID) (*Ride, error)
	ActiveByRider(ctx context.Context, riderID types.ID) (*Ride, error)
	ListByRider(ctx context.Context, riderID types.ID, f Filter) ([]Ride, int, error)
	ListByDriver(ctx context.Context, driverID types.ID, f Filter) ([]Ride, int, error)
	List(ctx context.Context, f Filter) ([]Ride, int, error)
	History(ctx context.Context, rideID types.ID) ([]Event, error)
}

// Rejections is the per-ride rejected-driver set. Pure read-time visibility:
// no transition ever depends on it.
type Rejections interface {
	Add(ctx context.Context, rideID, driverID types.ID) error
	FilterRejected(ctx context.Context, rideIDs []types.ID, driverID types.ID) (map[types.ID]bool, error)
}

// DriverGate answers whether a driver may see and accept requests.
type DriverGate interface {
	Eligible(ctx context.Context, userID types.ID) (bool, error)
}

// Filter narrows and pages list queries.
type Filter struct {
	Status *Status
	Offset int
	Limit  int
}

type Service struct {
	store      Store
	rejections Rejections
	gate       DriverGate
}

func NewService(store Store, rejections Rejections, gate DriverGate) *Service {
	return &Service{store: store, rejections: rejections, gate: gate}
}

type RequestCommand struct {
	RiderID     types.ID
	Pickup      types.Point
	Destination types.Point
	Fare        types.Money
}

type AcceptCommand struct {
	RideID   types.ID
	DriverID types.ID
}

type RejectCommand struct {
	RideID   types.ID
	DriverID types.ID
}

type AdvanceCommand struct {
	RideID   types.ID
	DriverID types.ID
	To       Status
}

type CancelCommand struct {
	RideID  types.ID
	RiderID types.ID
}

// Request creates a ride in requested with its first history entry. A rider
// may hold at most one open (non-terminal) ride.
func (s *Service) Request(ctx context.Context, cmd RequestCommand) (*Ride, error) {
	if cmd.RiderID == "" || cmd.Fare.Amount <= 0 {
		return nil, ErrValidation
	}
	if !cmd.Pickup.Valid() || !cmd.Destination.Valid() {
		return nil, ErrValidation
	}

	open, err := s.store.HasOpenByRider(ctx, cmd.RiderID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrActiveRide
	}

	now := time.Now()
	r := &Ride{
		ID:          types.ID(uuid.NewString()),
		RiderID:     cmd.RiderID,
		Pickup:      cmd.Pickup,
		Destination: cmd.Destination,
		Fare:        cmd.Fare,
		Status:      StatusRequested,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	first := Event{RideID: r.ID, Status: StatusRequested, CreatedAt: now}
	if err := s.store.Create(ctx, r, first); err != nil {
		return nil, err
	}
	observability.RidesRequested.Inc()
	return r, nil
}

// Accept is the single-winner claim: eligibility gate, busy pre-check, then a
// conditional write that only lands while the ride is still requested.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Ride, error) {
	eligible, err := s.gate.Eligible(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrForbidden
	}

	busy, err := s.store.HasActiveByDriver(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, ErrDriverBusy
	}

	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusRequested {
		return nil, ErrRideUnavailable
	}

	ok, err := s.store.Claim(ctx, cmd.RideID, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.AcceptConflicts.Inc()
		return nil, ErrRideUnavailable
	}
	observability.RideTransitions.WithLabelValues(string(StatusAccepted)).Inc()

	return s.store.Get(ctx, cmd.RideID)
}

// Reject adds the driver to the ride's rejection set. It never changes status
// or assignment, and repeating it is a no-op.
func (s *Service) Reject(ctx context.Context, cmd RejectCommand) error {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return err
	}
	if r.Status != StatusRequested {
		return ErrInvalidTransition
	}
	return s.rejections.Add(ctx, cmd.RideID, cmd.DriverID)
}

// Advance moves a ride forward through the trip (or cancels it) on behalf of
// its assigned driver.
func (s *Service) Advance(ctx context.Context, cmd AdvanceCommand) (*Ride, error) {
	if !advanceTargets[cmd.To] {
		return nil, ErrInvalidStatus
	}

	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.DriverID == nil || *r.DriverID != cmd.DriverID {
		return nil, ErrForbidden
	}
	if !CanTransition(r.Status, cmd.To) {
		return nil, ErrInvalidTransition
	}

	ok, err := s.store.Transition(ctx, cmd.RideID, r.Status, cmd.To)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The ride moved between read and write; from the caller's view the
		// transition is no longer legal.
		return nil, ErrInvalidTransition
	}
	observability.RideTransitions.WithLabelValues(string(cmd.To)).Inc()

	return s.store.Get(ctx, cmd.RideID)
}

// Cancel is rider-initiated and only legal while the ride is requested or
// accepted.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (*Ride, error) {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.RiderID != cmd.RiderID {
		return nil, ErrForbidden
	}
	if r.Status != StatusRequested && r.Status != StatusAccepted {
		return nil, ErrInvalidTransition
	}

	ok, err := s.store.Transition(ctx, cmd.RideID, r.Status, StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	observability.RideTransitions.WithLabelValues(string(StatusCancelled)).Inc()

	return s.store.Get(ctx, cmd.RideID)
}

// PendingForDriver lists requested rides the driver has not rejected. The
// eligibility gate runs before the query.
func (s *Service) PendingForDriver(ctx context.Context, driverID types.ID) ([]Ride, error) {
	eligible, err := s.gate.Eligible(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrForbidden
	}

	rides, err := s.store.ListRequested(ctx)
	if err != nil {
		return nil, err
	}
	if len(rides) == 0 {
		return []Ride{}, nil
	}

	ids := make([]types.ID, len(rides))
	for i, r := range rides {
		ids[i] = r.ID
	}
	rejected, err := s.rejections.FilterRejected(ctx, ids, driverID)
	if err != nil {
		return nil, err
	}

	visible := make([]Ride, 0, len(rides))
	for _, r := range rides {
		if !rejected[r.ID] {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

func (s *Service) ActiveForDriver(ctx context.Context, driverID types.ID) (*Ride, error) {
	return s.store.ActiveByDriver(ctx, driverID)
}

func (s *Service) ActiveForRider(ctx context.Context, riderID types.ID) (*Ride, error) {
	return s.store.ActiveByRider(ctx, riderID)
}

func (s *Service) HistoryForRider(ctx context.Context, riderID types.ID, f Filter) ([]Ride, int, error) {
	return s.store.ListByRider(ctx, riderID, f)
}

func (s *Service) HistoryForDriver(ctx context.Context, driverID types.ID, f Filter) ([]Ride, int, error) {
	return s.store.ListByDriver(ctx, driverID, f)
}

// List is the admin view over all rides.
func (s *Service) List(ctx context.Context, f Filter) ([]Ride, int, error) {
	return s.store.List(ctx, f)
}

// Get returns a ride with its full history. Only the rider, the assigned
// driver, or an admin may read it.
func (s *Service) Get(ctx context.Context, rideID, callerID types.ID, callerRole string) (*Ride, []Event, error) {
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, nil, err
	}
	assigned := r.DriverID != nil && *r.DriverID == callerID
	if callerRole != "admin" && r.RiderID != callerID && !assigned {
		return nil, nil, ErrForbidden
	}
	history, err := s.store.History(ctx, rideID)
	if err != nil {
		return nil, nil, err
	}
	return r, history, nil
}
