// README: Base handler utilities (JSON helpers, error mapping, pagination).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrValidation),
		errors.Is(err, ride.ErrInvalidStatus),
		errors.Is(err, driver.ErrBadRequest),
		errors.Is(err, user.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ride.ErrForbidden),
		errors.Is(err, driver.ErrNotApproved),
		errors.Is(err, user.ErrBlocked):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ride.ErrNotFound),
		errors.Is(err, driver.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrInvalidTransition),
		errors.Is(err, ride.ErrDriverBusy),
		errors.Is(err, ride.ErrRideUnavailable),
		errors.Is(err, ride.ErrActiveRide),
		errors.Is(err, user.ErrEmailTaken):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// pageMeta echoes the pagination envelope of list endpoints.
type pageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type pagedResponse struct {
	Meta pageMeta `json:"meta"`
	Data any      `json:"data"`
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePage reads ?page= and ?limit= with clamped defaults.
func parsePage(c *gin.Context) (page, limit, offset int) {
	page = defaultPage
	limit = defaultLimit
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

func writePaged(c *gin.Context, data any, page, limit, total int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	writeJSON(c, http.StatusOK, pagedResponse{
		Meta: pageMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
		Data: data,
	})
}

// statusFilter parses an optional ?status= query into a ride filter.
func statusFilter(c *gin.Context, offset, limit int) (ride.Filter, bool) {
	f := ride.Filter{Offset: offset, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		st, ok := ride.ParseStatus(raw)
		if !ok {
			return f, false
		}
		f.Status = &st
	}
	return f, true
}
