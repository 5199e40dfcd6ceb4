// README: Ride aggregate, status definitions, and the transition table.
package ride

import (
	"time"

	"hail/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusRequested Status = "requested"
	StatusAccepted  Status = "accepted"
	StatusPickedUp  Status = "picked_up"
	StatusInTransit Status = "in_transit"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus maps a raw string onto a known status value.
func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusRequested, StatusAccepted, StatusPickedUp, StatusInTransit, StatusCompleted, StatusCancelled:
		return Status(v), true
	}
	return "", false
}

// ActiveStatuses is the in-progress set: a driver (or rider) may hold at most
// one ride in these states at any instant.
var ActiveStatuses = []Status{StatusAccepted, StatusPickedUp, StatusInTransit}

type Ride struct {
	ID          types.ID    `json:"id"`
	RiderID     types.ID    `json:"riderId"`
	DriverID    *types.ID   `json:"driverId"`
	Pickup      types.Point `json:"pickupLocation"`
	Destination types.Point `json:"destinationLocation"`
	Fare        types.Money `json:"fare"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Event is one entry of the append-only ride history. Every committed status
// transition appends exactly one event in the same atomic unit.
type Event struct {
	ID        int64     `json:"-"`
	RideID    types.ID  `json:"-"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"timestamp"`
}

// AllowedTransitions is the ride state flow as code. Completed and cancelled
// are terminal and have no outgoing edges.
var AllowedTransitions = map[Status][]Status{
	StatusRequested: {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPickedUp, StatusCancelled},
	StatusPickedUp:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// advanceTargets are the statuses a driver may advance a ride to. Accepting is
// not an advance; it has its own claim path.
var advanceTargets = map[Status]bool{
	StatusPickedUp:  true,
	StatusInTransit: true,
	StatusCompleted: true,
	StatusCancelled: true,
}
