// README: Driver-facing handlers: pending requests, accept/reject, advance, availability, earnings.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/http/middleware"
	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/types"
)

type DriverHandler struct {
	rides   *ride.Service
	drivers *driver.Service
}

func NewDriverHandler(rides *ride.Service, drivers *driver.Service) *DriverHandler {
	return &DriverHandler{rides: rides, drivers: drivers}
}

// Pending lists requested rides the driver has not rejected.
func (h *DriverHandler) Pending(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	rides, err := h.rides.PendingForDriver(c.Request.Context(), id.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"rides": rides})
}

func (h *DriverHandler) Accept(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	r, err := h.rides.Accept(c.Request.Context(), ride.AcceptCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: id.UserID,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *DriverHandler) Reject(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := h.rides.Reject(c.Request.Context(), ride.RejectCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: id.UserID,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"rejected": true})
}

type advanceRequest struct {
	Status string `json:"status" binding:"required"`
}

// Advance moves an assigned ride forward (or cancels it).
func (h *DriverHandler) Advance(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	r, err := h.rides.Advance(c.Request.Context(), ride.AdvanceCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: id.UserID,
		To:       ride.Status(req.Status),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *DriverHandler) DriverHistory(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, limit, offset := parsePage(c)
	f, ok := statusFilter(c, offset, limit)
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid status filter")
		return
	}

	rides, total, err := h.rides.HistoryForDriver(c.Request.Context(), id.UserID, f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writePaged(c, rides, page, limit, total)
}

func (h *DriverHandler) DriverActive(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	r, err := h.rides.ActiveForDriver(c.Request.Context(), id.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

type availabilityRequest struct {
	Availability string `json:"availability" binding:"required"`
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.drivers.SetAvailability(c.Request.Context(), id.UserID, driver.Availability(req.Availability))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *DriverHandler) Earnings(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	e, err := h.drivers.Earnings(c.Request.Context(), id.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, e)
}

func (h *DriverHandler) MonthlyEarnings(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	months, err := h.drivers.MonthlyEarnings(c.Request.Context(), id.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"monthlyEarnings": months})
}
