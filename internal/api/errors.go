package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/httputil"
	"github.com/docgraph/docgraph/internal/metrics"
	"github.com/docgraph/docgraph/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeConflict          = "conflict"
	ErrCodeInternalError     = "internal_error"
	ErrCodeValidationError   = "validation_error"
	ErrCodeEngineUnavailable = "engine_unavailable"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondUnavailable answers a write the engine could not take.
func respondUnavailable(c *gin.Context) {
	respondError(c, http.StatusServiceUnavailable, ErrCodeEngineUnavailable, "document engine unavailable")
}

// respondServiceError maps a rejected request onto a status code. Unknown
// errors are logged and reported as internal.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, what string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, what+" not found")
	case errors.Is(err, models.ErrConflict):
		respondError(c, http.StatusConflict, ErrCodeConflict, what+" with this id already exists")
	case errors.Is(err, models.ErrDatasourceMismatch):
		respondError(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, models.ErrInvalidPredicate):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, models.ErrEngineUnavailable):
		respondUnavailable(c)
	default:
		log.WithError(err).WithField("request_id", httputil.RequestID(c)).Error(what + " request failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
