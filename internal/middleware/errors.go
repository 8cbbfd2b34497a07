package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/docgraph/docgraph/internal/httputil"
	"github.com/docgraph/docgraph/internal/metrics"
)

// respondError counts the error and writes the shared error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
