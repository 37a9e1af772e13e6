package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edifyminds/edify-backend/internal/response"
	"github.com/edifyminds/edify-backend/internal/service"
)

// OverviewHandler handles the admin overview endpoint.
type OverviewHandler struct {
	overviewService *service.OverviewService
}

// NewOverviewHandler creates a new OverviewHandler.
func NewOverviewHandler(overviewService *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviewService: overviewService}
}

// GetOverview godoc
// GET /api/v1/admin/overview
// Returns platform totals, recent submissions and the export queue
// depth.
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	overview, err := h.overviewService.GetOverview(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"overview": overview})
}
