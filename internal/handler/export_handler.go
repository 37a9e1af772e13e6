package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edifyminds/edify-backend/internal/middleware"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/response"
	"github.com/edifyminds/edify-backend/internal/service"
)

// ExportHandler handles submission export endpoints.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RequestExport godoc
// POST /api/v1/tests/:test_id/submissions/export
// Queues a spreadsheet export of a test's submissions and returns the
// job record for polling.
func (h *ExportHandler) RequestExport(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	job, err := h.exportService.RequestExport(c.Request.Context(), testID, claims.UserID, claims.Role == model.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotTestOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotTestOwner)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// GetExportJob godoc
// GET /api/v1/exports/:job_id
// Returns the state of an export job: queued, running, done (with a
// download URL) or failed.
func (h *ExportHandler) GetExportJob(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	job, err := h.exportService.GetJob(c.Request.Context(), jobID, claims.UserID, claims.Role == model.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotJobOwner):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"job": job})
}
