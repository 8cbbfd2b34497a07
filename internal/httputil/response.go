// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// requestIDKey mirrors middleware.RequestIDKey without importing it.
const requestIDKey = "request_id"

// ErrorBody is the JSON envelope of every error response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RequestID returns the ID assigned by the request ID middleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RespondError writes a standardized JSON error response and aborts the request.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: RequestID(c),
	})
}

// RespondJSON writes body as JSON with status.
func RespondJSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
