package api_test

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/docgraph/docgraph/internal/api"
	"github.com/docgraph/docgraph/internal/models"
)

func graphRouter(svc *mockGraphService) *gin.Engine {
	r := gin.New()
	h := api.NewGraphHandler(svc, testLogger())
	r.GET("/:ds/v/:id/neighbors", h.Neighbors)
	r.GET("/:ds/v/:id/edges", h.Edges)
	r.GET("/:ds/e/:id/other/:vid", h.Other)

	return r
}

func TestNeighbors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantDir    models.Direction
		wantLabels []string
	}{
		{"default both", "", models.DirectionBoth, nil},
		{"out with labels", "?dir=out&labels=person,place", models.DirectionOut, []string{"person", "place"}},
		{"in uppercase", "?dir=IN", models.DirectionIn, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotDir models.Direction
			var gotLabels []string
			svc := &mockGraphService{neighborsFn: func(_ context.Context, _, _ string, dir models.Direction, labels []string) ([]models.Vertex, error) {
				gotDir, gotLabels = dir, labels
				return nil, nil
			}}

			w := doRequest(graphRouter(svc), http.MethodGet, "/sample/v/v01/neighbors"+tt.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if w.Body.String() != "[]" {
				t.Errorf("body = %s, want []", w.Body.String())
			}
			if gotDir != tt.wantDir || !reflect.DeepEqual(gotLabels, tt.wantLabels) {
				t.Errorf("got (%s, %v), want (%s, %v)", gotDir, gotLabels, tt.wantDir, tt.wantLabels)
			}
		})
	}
}

func TestNeighbors_BadDirection(t *testing.T) {
	t.Parallel()

	svc := &mockGraphService{}
	w := doRequest(graphRouter(svc), http.MethodGet, "/sample/v/v01/neighbors?dir=sideways", "")
	expectError(t, w, http.StatusBadRequest, api.ErrCodeInvalidRequest)

	if len(svc.names()) != 0 {
		t.Errorf("service called: %v", svc.names())
	}
}

func TestEdgesOfVertex_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"label set", "/sample/v/v01/edges?dir=out&labels=knows", "EdgesOfVertex"},
		{"single label", "/sample/v/v01/edges?label=knows", "EdgesOfVertex"},
		{"key value", "/sample/v/v01/edges?label=knows&key=since&value=2020", "EdgesOfVertexByKeyValue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockGraphService{
				edgesFn: func(context.Context, string, string, models.Direction, []string) ([]models.Edge, error) {
					return nil, nil
				},
				edgesKVFn: func(_ context.Context, _, _ string, _ models.Direction, label, key, value string) ([]models.Edge, error) {
					if label != "knows" || key != "since" || value != "2020" {
						t.Errorf("got (%q, %q, %q)", label, key, value)
					}
					return nil, nil
				},
			}

			w := doRequest(graphRouter(svc), http.MethodGet, tt.path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if got := svc.names(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestOtherVertex(t *testing.T) {
	t.Parallel()

	svc := &mockGraphService{otherFn: func(_ context.Context, ds, eid, vid string) (models.Vertex, bool) {
		if eid == "e01" && vid == "v01" {
			return models.Vertex{Element: models.Element{ID: "v02", Datasource: ds, Label: "person"}}, true
		}
		return models.Vertex{}, false
	}}
	r := graphRouter(svc)

	w := doRequest(r, http.MethodGet, "/sample/e/e01/other/v01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if v := decode[models.Vertex](t, w); v.ID != "v02" {
		t.Errorf("other = %q, want v02", v.ID)
	}

	expectError(t, doRequest(r, http.MethodGet, "/sample/e/e01/other/v09", ""), http.StatusNotFound, api.ErrCodeNotFound)
}
