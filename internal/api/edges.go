package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/models"
)

// EdgeHandler serves edge CRUD endpoints.
type EdgeHandler struct {
	svc EdgeService
	log *logrus.Logger
}

// NewEdgeHandler creates an EdgeHandler with the given service and logger.
func NewEdgeHandler(svc EdgeService, log *logrus.Logger) *EdgeHandler {
	return &EdgeHandler{svc: svc, log: log}
}

func bindEdge(c *gin.Context, id string) (models.Edge, bool) {
	var e models.Edge
	if err := c.ShouldBindJSON(&e); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return e, false
	}

	if !bindElement(c, &e.Element, id) {
		return e, false
	}

	if err := e.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return e, false
	}

	return e, true
}

func (h *EdgeHandler) audit(action string, e models.Edge) {
	h.log.WithFields(logrus.Fields{
		"action":     action,
		"datasource": e.Datasource,
		"edge_id":    e.ID,
		"source_id":  e.SourceID,
		"target_id":  e.TargetID,
	}).Info("audit")
}

// Create handles POST /api/v1/:ds/e.
func (h *EdgeHandler) Create(c *gin.Context) {
	if !pathParams(c, "ds") {
		return
	}

	e, ok := bindEdge(c, "")
	if !ok {
		return
	}

	out, ok, err := h.svc.CreateEdge(c.Request.Context(), e)
	if err != nil {
		respondServiceError(c, h.log, err, "edge")

		return
	}
	if !ok {
		respondUnavailable(c)

		return
	}

	h.audit("edge.create", out)
	c.JSON(http.StatusCreated, out)
}

// Upsert handles PUT /api/v1/:ds/e.
func (h *EdgeHandler) Upsert(c *gin.Context) {
	if !pathParams(c, "ds") {
		return
	}

	e, ok := bindEdge(c, "")
	if !ok {
		return
	}

	out, created, ok, err := h.svc.UpsertEdge(c.Request.Context(), e)
	if err != nil {
		respondServiceError(c, h.log, err, "edge")

		return
	}
	if !ok {
		respondUnavailable(c)

		return
	}

	h.audit("edge.upsert", out)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, out)
}

// Update handles PUT /api/v1/:ds/e/:id.
func (h *EdgeHandler) Update(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	e, ok := bindEdge(c, c.Param("id"))
	if !ok {
		return
	}

	out, ok, err := h.svc.UpdateEdge(c.Request.Context(), e)
	if err != nil {
		respondServiceError(c, h.log, err, "edge")

		return
	}
	if !ok {
		respondUnavailable(c)

		return
	}

	h.audit("edge.update", out)
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/v1/:ds/e/:id.
func (h *EdgeHandler) Get(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	e, ok := h.svc.GetEdge(c.Request.Context(), c.Param("ds"), c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "edge not found")

		return
	}

	c.JSON(http.StatusOK, e)
}

// Delete handles DELETE /api/v1/:ds/e/:id. Deleting an absent edge succeeds.
func (h *EdgeHandler) Delete(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	ds, id := c.Param("ds"), c.Param("id")
	if !h.svc.DeleteEdge(c.Request.Context(), ds, id) {
		respondUnavailable(c)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "edge.delete", "datasource": ds, "edge_id": id}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
