package httputil_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/docgraph/docgraph/internal/httputil"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		reqID  string
		status int
	}{
		{"with request id", "abc", http.StatusNotFound},
		{"without request id", "", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) {
				if tt.reqID != "" {
					c.Set("request_id", tt.reqID)
				}
				httputil.RespondError(c, tt.status, "some_code", "boom")
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", http.NoBody))

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}

			var body httputil.ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != "some_code" || body.Message != "boom" || body.RequestID != tt.reqID {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}
