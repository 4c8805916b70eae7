package http

import (
	"errors"
	"net/http"

	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[domain.Kind]int{
	domain.ErrNotFound:                http.StatusNotFound,
	domain.ErrInactive:                http.StatusNotFound,
	domain.ErrProductUnavailable:      http.StatusBadRequest,
	domain.ErrInsufficientStock:       http.StatusBadRequest,
	domain.ErrInvalidQuantity:         http.StatusBadRequest,
	domain.ErrEmptyCart:               http.StatusBadRequest,
	domain.ErrInvalidCoupon:           http.StatusBadRequest,
	domain.ErrMinimumPurchaseNotMet:   http.StatusBadRequest,
	domain.ErrNoCouponApplied:         http.StatusBadRequest,
	domain.ErrInvalidStatusTransition: http.StatusBadRequest,
	domain.ErrAlreadyPaid:             http.StatusBadRequest,
	domain.ErrNotPaid:                 http.StatusBadRequest,
	domain.ErrInvalidRequest:          http.StatusBadRequest,
	domain.ErrNotAuthorized:           http.StatusForbidden,
	domain.ErrConflict:                http.StatusConflict,
	domain.ErrPaymentInitiationFailed: http.StatusBadGateway,
}

type errorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// writeError renders a domain error with its kind and details. Anything
// else is an internal failure and its text is not exposed.
func writeError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := statusByKind[de.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{Error: string(de.Kind), Message: de.Message, Details: de.Details})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: string(domain.ErrInvalidRequest), Message: err.Error()})
}

func isDomainError(err error) bool {
	var de *domain.Error
	return errors.As(err, &de)
}
