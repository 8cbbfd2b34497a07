package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/models"
)

// VertexHandler serves vertex CRUD endpoints.
type VertexHandler struct {
	svc VertexService
	log *logrus.Logger
}

// NewVertexHandler creates a VertexHandler with the given service and logger.
func NewVertexHandler(svc VertexService, log *logrus.Logger) *VertexHandler {
	return &VertexHandler{svc: svc, log: log}
}

// bindVertex decodes and validates the request body. The datasource comes
// from the path; a body naming another datasource is rejected. A non-empty
// id argument pins the vertex id the same way.
func bindVertex(c *gin.Context, id string) (models.Vertex, bool) {
	var v models.Vertex
	if err := c.ShouldBindJSON(&v); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return v, false
	}

	if !bindElement(c, &v.Element, id) {
		return v, false
	}

	if err := v.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return v, false
	}

	return v, true
}

// bindElement fills the datasource and id of e from the path.
func bindElement(c *gin.Context, e *models.Element, id string) bool {
	ds := c.Param("ds")
	if e.Datasource != "" && e.Datasource != ds {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "body datasource does not match path")

		return false
	}
	e.Datasource = ds

	if id != "" {
		if e.ID != "" && e.ID != id {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "body id does not match path")

			return false
		}
		e.ID = id
	}

	return true
}

// Create handles POST /api/v1/:ds/v.
func (h *VertexHandler) Create(c *gin.Context) {
	if !pathParams(c, "ds") {
		return
	}

	v, ok := bindVertex(c, "")
	if !ok {
		return
	}

	out, ok, err := h.svc.CreateVertex(c.Request.Context(), v)
	if err != nil {
		respondServiceError(c, h.log, err, "vertex")

		return
	}
	if !ok {
		respondUnavailable(c)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "vertex.create", "datasource": out.Datasource, "vertex_id": out.ID}).Info("audit")

	c.JSON(http.StatusCreated, out)
}

// Upsert handles PUT /api/v1/:ds/v. It answers 201 when the vertex was created.
func (h *VertexHandler) Upsert(c *gin.Context) {
	if !pathParams(c, "ds") {
		return
	}

	v, ok := bindVertex(c, "")
	if !ok {
		return
	}

	out, created, ok, err := h.svc.UpsertVertex(c.Request.Context(), v)
	if err != nil {
		respondServiceError(c, h.log, err, "vertex")

		return
	}
	if !ok {
		respondUnavailable(c)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "vertex.upsert", "datasource": out.Datasource, "vertex_id": out.ID, "created": created,
	}).Info("audit")

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, out)
}

// Update handles PUT /api/v1/:ds/v/:id.
func (h *VertexHandler) Update(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	v, ok := bindVertex(c, c.Param("id"))
	if !ok {
		return
	}

	out, ok, err := h.svc.UpdateVertex(c.Request.Context(), v)
	if err != nil {
		respondServiceError(c, h.log, err, "vertex")

		return
	}
	if !ok {
		respondUnavailable(c)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "vertex.update", "datasource": out.Datasource, "vertex_id": out.ID}).Info("audit")

	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/v1/:ds/v/:id.
func (h *VertexHandler) Get(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	v, ok := h.svc.GetVertex(c.Request.Context(), c.Param("ds"), c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "vertex not found")

		return
	}

	c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /api/v1/:ds/v/:id. Only ?cascade=true removes the
// vertex's edges as well.
func (h *VertexHandler) Delete(c *gin.Context) {
	if !pathParams(c, "ds", "id") {
		return
	}

	ds, id := c.Param("ds"), c.Param("id")
	cascade := c.Query("cascade") == "true"

	removed, ok := h.svc.DeleteVertex(c.Request.Context(), ds, id, cascade)
	if !ok {
		respondUnavailable(c)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "vertex.delete", "datasource": ds, "vertex_id": id, "cascade": cascade, "edges_removed": removed,
	}).Info("audit")

	resp := gin.H{"deleted": true}
	if cascade {
		resp["edges_removed"] = removed
	}
	c.JSON(http.StatusOK, resp)
}
