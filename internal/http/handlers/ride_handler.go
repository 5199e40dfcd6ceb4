// README: Rider-facing ride handlers: request, cancel, history, active, detail.
package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/http/middleware"
	"hail/internal/modules/ride"
	"hail/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(rides *ride.Service) *RideHandler {
	return &RideHandler{rides: rides}
}

type requestRideRequest struct {
	Pickup      types.Point `json:"pickupLocation" binding:"required"`
	Destination types.Point `json:"destinationLocation" binding:"required"`
	// Fare in major units, e.g. 15.0.
	Fare float64 `json:"fare" binding:"required"`
}

func (h *RideHandler) Request(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req requestRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	r, err := h.rides.Request(c.Request.Context(), ride.RequestCommand{
		RiderID:     id.UserID,
		Pickup:      req.Pickup,
		Destination: req.Destination,
		Fare:        types.Money{Amount: int64(math.Round(req.Fare * 100)), Currency: "USD"},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *RideHandler) Cancel(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	r, err := h.rides.Cancel(c.Request.Context(), ride.CancelCommand{
		RideID:  types.ID(c.Param("id")),
		RiderID: id.UserID,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) RiderHistory(c *gin.Context) {
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

	rides, total, err := h.rides.HistoryForRider(c.Request.Context(), id.UserID, f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writePaged(c, rides, page, limit, total)
}

func (h *RideHandler) RiderActive(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	r, err := h.rides.ActiveForRider(c.Request.Context(), id.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

// Get returns one ride with its full transition history.
func (h *RideHandler) Get(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	r, history, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("id")), id.UserID, id.Role)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ride": r, "rideHistory": history})
}
