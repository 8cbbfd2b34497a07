package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/models"
)

// GraphHandler serves single-hop traversal endpoints.
type GraphHandler struct {
	svc GraphService
	log *logrus.Logger
}

// NewGraphHandler creates a GraphHandler with the given service and logger.
func NewGraphHandler(svc GraphService, log *logrus.Logger) *GraphHandler {
	return &GraphHandler{svc: svc, log: log}
}

func direction(c *gin.Context) (models.Direction, bool) {
	dir, err := models.ParseDirection(c.Query("dir"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return "", false
	}

	return dir, true
}

// Neighbors handles GET /api/v1/:ds/v/:id/neighbors.
func (h *GraphHandler) Neighbors(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	dir, ok := direction(c)
	if !ok {
		return
	}

	out, err := h.svc.Neighbors(c.Request.Context(), c.Param("ds"), c.Param("id"), dir, splitList(c.Query("labels")))
	if err != nil {
		respondServiceError(c, h.log, err, "vertex")

		return
	}

	if out == nil {
		out = []models.Vertex{}
	}
	c.JSON(http.StatusOK, out)
}

// Edges handles GET /api/v1/:ds/v/:id/edges. With key (and optionally label
// and value) it filters edges by an exact property; otherwise by label set.
func (h *GraphHandler) Edges(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	dir, ok := direction(c)
	if !ok {
		return
	}

	ctx, ds, id := c.Request.Context(), c.Param("ds"), c.Param("id")

	var (
		out []models.Edge
		err error
	)
	if key := c.Query("key"); key != "" {
		out, err = h.svc.EdgesOfVertexByKeyValue(ctx, ds, id, dir, c.Query("label"), key, c.Query("value"))
	} else {
		labels := splitList(c.Query("labels"))
		if l := c.Query("label"); l != "" {
			labels = append(labels, l)
		}
		out, err = h.svc.EdgesOfVertex(ctx, ds, id, dir, labels)
	}

	if err != nil {
		respondServiceError(c, h.log, err, "edge")

		return
	}

	if out == nil {
		out = []models.Edge{}
	}
	c.JSON(http.StatusOK, out)
}

// Other handles GET /api/v1/:ds/e/:id/other/:vid.
func (h *GraphHandler) Other(c *gin.Context) {
	if !pathParams(c, "ds", "id", "vid") {
		return
	}

	v, ok := h.svc.OtherVertex(c.Request.Context(), c.Param("ds"), c.Param("id"), c.Param("vid"))
	if !ok {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "vertex not found")

		return
	}

	c.JSON(http.StatusOK, v)
}
