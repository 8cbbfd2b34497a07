package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/middleware"
	"github.com/docgraph/docgraph/internal/ws"
)

// maxPathParamLen bounds ids, datasources and labels taken from the URL.
const maxPathParamLen = 255

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasource := c.Query("datasource")
		if len(datasource) > maxPathParamLen {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "datasource too long")

			return
		}

		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns (no wildcards etc.).
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(hub, conn, datasource)
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		if ds := c.Param("ds"); ds != "" {
			fields["datasource"] = ds
		}
		log.WithFields(fields).Info("request")
	}
}

// parseSize reads the optional size query parameter. Zero means the store default.
func parseSize(c *gin.Context) (int, error) {
	s := c.Query("size")
	if s == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("size must be a positive integer")
	}

	return v, nil
}

// splitList splits a comma-separated parameter, dropping blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// validatePathParam checks that a path parameter is non-empty and within length limits.
func validatePathParam(name, v string) error {
	if v == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	if len(v) > maxPathParamLen {
		return fmt.Errorf("%s exceeds maximum length of %d", name, maxPathParamLen)
	}
	return nil
}

// pathParams validates the named path parameters, writing a 400 on the first
// bad one. It returns false when the request was answered.
func pathParams(c *gin.Context, names ...string) bool {
	for _, name := range names {
		if err := validatePathParam(name, c.Param(name)); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

			return false
		}
	}

	return true
}
