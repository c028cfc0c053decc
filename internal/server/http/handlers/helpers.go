package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/ticketo/points/internal/domain/errors"
	"github.com/ticketo/points/internal/server/http/dto"
	"github.com/ticketo/points/internal/server/http/middleware"
)

// CurrentTenant extracts the tenant identifier resolved by the middleware.
func CurrentTenant(c *gin.Context) string {
	val, ok := c.Get(middleware.TenantContextKey)
	if !ok {
		return ""
	}
	tenantID, _ := val.(string)
	return tenantID
}

func pathUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil || userID <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

// systemFilter parses the optional ?system= query parameter.
func systemFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("system")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return nil, false
	}
	return &id, true
}

// respondError translates domain errors into HTTP statuses. Rule violations
// that carry a reason get a response body.
func respondError(c *gin.Context, err error) {
	switch {
	case domainErrors.IsValidation(err),
		errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrDiscountMismatch):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrSystemDisabled),
		errors.Is(err, domainErrors.ErrNotRedeemable),
		errors.Is(err, domainErrors.ErrSystemInUse):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		c.Status(http.StatusPaymentRequired)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
