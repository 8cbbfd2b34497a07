package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/docgraph/docgraph/internal/api"
)

type fixedClients int

func (f fixedClients) ClientCount() int { return int(f) }

func TestLiveness(t *testing.T) {
	t.Parallel()

	r := gin.New()
	h := api.NewHealthHandler(&mockDatasourceService{}, fixedClients(2), testLogger(), "1.2.3", "memory", 0)
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := decode[map[string]any](t, w)
	if body["version"] != "1.2.3" || body["engine"] != "memory" || body["ws_clients"] != float64(2) {
		t.Errorf("unexpected body %v", body)
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{"ready", nil, http.StatusOK, "ready"},
		{"engine down", errors.New("connection refused"), http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockDatasourceService{readyFn: func(context.Context) error { return tt.err }}
			r := gin.New()
			h := api.NewHealthHandler(svc, nil, testLogger(), "dev", "postgres", 1)
			r.GET("/ready", h.Readiness)

			w := doRequest(r, http.MethodGet, "/ready", "")
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}

			body := decode[map[string]any](t, w)
			if body["status"] != tt.want || body["schema_version"] != float64(1) {
				t.Errorf("unexpected body %v", body)
			}
		})
	}
}
