package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/models"
)

// DatasourceHandler serves counts, schema summaries and datasource maintenance.
type DatasourceHandler struct {
	svc DatasourceService
	log *logrus.Logger
}

// NewDatasourceHandler creates a DatasourceHandler with the given service and logger.
func NewDatasourceHandler(svc DatasourceService, log *logrus.Logger) *DatasourceHandler {
	return &DatasourceHandler{svc: svc, log: log}
}

// Count handles GET /api/v1/:ds/count.
func (h *DatasourceHandler) Count(c *gin.Context) {
	if !pathParams(c, "ds") {
		return
	}

	counts, err := h.svc.Counts(c.Request.Context(), c.Param("ds"))
	if err != nil {
		respondServiceError(c, h.log, err, "datasource")

		return
	}

	c.JSON(http.StatusOK, counts)
}

// TotalCount handles GET /api/v1/count.
func (h *DatasourceHandler) TotalCount(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.TotalCounts(c.Request.Context()))
}

// Labels handles GET /api/v1/:ds/labels.
func (h *DatasourceHandler) Labels(c *gin.Context) {
	if !pathParams(c, "ds") {
		return
	}

	labels, err := h.svc.Labels(c.Request.Context(), c.Param("ds"))
	if err != nil {
		respondServiceError(c, h.log, err, "datasource")

		return
	}

	c.JSON(http.StatusOK, labels)
}

// VertexKeys handles GET /api/v1/:ds/labels/v/:label/keys.
func (h *DatasourceHandler) VertexKeys(c *gin.Context) {
	if !pathParams(c, "ds", "label") {
		return
	}

	h.keys(c, h.svc.VertexKeys)
}

// EdgeKeys handles GET /api/v1/:ds/labels/e/:label/keys.
func (h *DatasourceHandler) EdgeKeys(c *gin.Context) {
	if !pathParams(c, "ds", "label") {
		return
	}

	h.keys(c, h.svc.EdgeKeys)
}

func (h *DatasourceHandler) keys(c *gin.Context, fn func(ctx context.Context, ds, label string) ([]models.Bucket, error)) {
	buckets, err := fn(c.Request.Context(), c.Param("ds"), c.Param("label"))
	if err != nil {
		respondServiceError(c, h.log, err, "label")

		return
	}

	c.JSON(http.StatusOK, models.BucketMap(buckets))
}

// Remove handles DELETE /api/v1/:ds.
func (h *DatasourceHandler) Remove(c *gin.Context) {
	if !pathParams(c, "ds") {
		return
	}

	ds := c.Param("ds")

	counts, err := h.svc.Remove(c.Request.Context(), ds)
	if err != nil {
		respondServiceError(c, h.log, err, "datasource")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "datasource.remove", "datasource": ds, "vertices": counts.V, "edges": counts.E}).Info("audit")

	c.JSON(http.StatusOK, counts)
}

// Reset handles PUT /api/v1/reset.
func (h *DatasourceHandler) Reset(c *gin.Context) {
	if !h.svc.Reset(c.Request.Context()) {
		respondUnavailable(c)

		return
	}

	h.log.WithField("action", "index.reset").Info("audit")

	c.JSON(http.StatusOK, gin.H{"reset": true})
}
