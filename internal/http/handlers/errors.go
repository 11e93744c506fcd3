package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"railbook/internal/domain"
	"railbook/internal/http/middleware"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain error kinds to HTTP responses. Each kind
// keeps its own code so clients can distinguish "sold out" (give up) from
// "contention" (resubmit) without parsing messages.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsSoldOut(err):
		respondError(c, http.StatusConflict, "sold_out", err.Error())
	case domain.IsContention(err):
		respondError(c, http.StatusServiceUnavailable, "contention_exhausted", err.Error())
	case domain.IsTimeout(err):
		respondError(c, http.StatusGatewayTimeout, "timeout", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsPersistence(err):
		respondError(c, http.StatusInternalServerError, "persistence_error", "booking could not be stored, seats were released")
	case domain.IsReference(err):
		respondError(c, http.StatusInternalServerError, "reference_error", "could not issue booking reference")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
