// README: Admin handlers: listings, analytics, driver approval, user blocking.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/admin"
	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
	"hail/internal/types"
)

type AdminHandler struct {
	users   *user.Service
	drivers *driver.Service
	rides   *ride.Service
	admin   *admin.Service
}

func NewAdminHandler(users *user.Service, drivers *driver.Service, rides *ride.Service, adminSvc *admin.Service) *AdminHandler {
	return &AdminHandler{users: users, drivers: drivers, rides: rides, admin: adminSvc}
}

// ListUsers returns rider accounts, paginated and searchable by name or email.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit, offset := parsePage(c)
	users, total, err := h.users.List(c.Request.Context(), user.RoleRider, c.Query("search"), offset, limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writePaged(c, users, page, limit, total)
}

func (h *AdminHandler) ListDrivers(c *gin.Context) {
	page, limit, offset := parsePage(c)
	drivers, total, err := h.drivers.List(c.Request.Context(), c.Query("search"), offset, limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writePaged(c, drivers, page, limit, total)
}

func (h *AdminHandler) ListRides(c *gin.Context) {
	page, limit, offset := parsePage(c)
	f, ok := statusFilter(c, offset, limit)
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid status filter")
		return
	}

	rides, total, err := h.rides.List(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writePaged(c, rides, page, limit, total)
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	a, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, a)
}

type approvalRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetApproval approves or suspends a driver; suspension also forces the
// driver offline.
func (h *AdminHandler) SetApproval(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.drivers.SetApproval(c.Request.Context(), types.ID(c.Param("userId")), driver.ApprovalStatus(req.Status))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

type blockRequest struct {
	IsBlocked *bool `json:"isBlocked" binding:"required"`
}

func (h *AdminHandler) SetBlocked(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.SetBlocked(c.Request.Context(), types.ID(c.Param("userId")), *req.IsBlocked)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, u)
}
