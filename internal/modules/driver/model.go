// README: Driver registry entities: approval state and availability.
package driver

import (
	"time"

	"hail/internal/types"
)

type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalSuspended ApprovalStatus = "suspended"
)

type Availability string

const (
	AvailabilityOnline  Availability = "online"
	AvailabilityOffline Availability = "offline"
)

// Driver is the per-user driver profile. One profile per user.
type Driver struct {
	UserID         types.ID       `json:"userId"`
	VehicleDetails string         `json:"vehicleDetails"`
	LicenseNumber  string         `json:"licenseNumber"`
	Approval       ApprovalStatus `json:"approvalStatus"`
	Availability   Availability   `json:"availability"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Eligible reports whether the driver may see and accept ride requests.
func (d *Driver) Eligible() bool {
	return d.Approval == ApprovalApproved && d.Availability == AvailabilityOnline
}

type Earnings struct {
	Total          types.Money `json:"totalEarnings"`
	CompletedRides int         `json:"completedRides"`
}

type MonthlyEarnings struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Total types.Money `json:"totalEarnings"`
	Rides int         `json:"totalRides"`
}
