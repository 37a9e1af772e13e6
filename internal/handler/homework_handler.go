package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edifyminds/edify-backend/internal/middleware"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/response"
	"github.com/edifyminds/edify-backend/internal/service"
	"github.com/edifyminds/edify-backend/internal/validator"
)

// HomeworkHandler handles homework endpoints.
type HomeworkHandler struct {
	homeworkService *service.HomeworkService
}

// NewHomeworkHandler creates a new HomeworkHandler.
func NewHomeworkHandler(homeworkService *service.HomeworkService) *HomeworkHandler {
	return &HomeworkHandler{homeworkService: homeworkService}
}

// CreateHomework godoc
// POST /api/v1/homework
func (h *HomeworkHandler) CreateHomework(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateHomeworkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	homework, err := h.homeworkService.Create(c.Request.Context(), claims, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoClassAccess):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"homework": homework})
}

// ListClassHomework godoc
// GET /api/v1/classes/:class_id/homework
func (h *HomeworkHandler) ListClassHomework(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, err := strconv.Atoi(c.Param("class_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	homework, err := h.homeworkService.ListByClass(c.Request.Context(), classID, claims)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, service.ErrNoClassAccess):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"homework": homework})
}

// DeleteHomework godoc
// DELETE /api/v1/homework/:homework_id
// Removes a homework entry and its uploaded attachment, if any.
func (h *HomeworkHandler) DeleteHomework(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	homeworkID, err := uuid.Parse(c.Param("homework_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.homeworkService.Delete(c.Request.Context(), homeworkID, claims); err != nil {
		switch {
		case errors.Is(err, service.ErrNoClassAccess):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "homework deleted successfully"})
}
