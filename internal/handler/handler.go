package handler

import (
	"errors"
	"net/http"

	"backend/internal/calc"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// actorFrom rebuilds the acting user from the values the auth middleware
// stored on the request context.
func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:     c.GetString("userID"),
		Email:      c.GetString("userEmail"),
		Role:       c.GetString("userRole"),
		EmployeeID: c.GetString("employeeID"),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrSelfDeletion):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountLocked),
		errors.Is(err, service.ErrAccountDisabled):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, calc.ErrNegativeQuantity),
		errors.Is(err, calc.ErrInsufficientStock),
		errors.Is(err, calc.ErrInvalidAdjustment):
		status = http.StatusBadRequest
	}
	c.JSON(status, response.Error(status, err.Error()))
}
