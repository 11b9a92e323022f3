package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gradsys/gradtrack-backend/internal/middleware"
	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/response"
	"github.com/gradsys/gradtrack-backend/internal/service"
	"github.com/gradsys/gradtrack-backend/internal/validator"
)

// SurveyAdminHandler handles teacher-facing survey management and
// completion statistics.
type SurveyAdminHandler struct {
	surveyService *service.SurveyService
}

// NewSurveyAdminHandler creates a new SurveyAdminHandler.
func NewSurveyAdminHandler(surveyService *service.SurveyService) *SurveyAdminHandler {
	return &SurveyAdminHandler{surveyService: surveyService}
}

// ListSurveys godoc
// GET /api/v1/teacher/surveys
// Pages through every survey with completion statistics scoped to the
// teacher's students.
func (h *SurveyAdminHandler) ListSurveys(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage, limit, offset := pageParams(c)

	stats, total, err := h.surveyService.ListStats(c.Request.Context(), claims.UserID, limit, offset)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"surveys": stats}, buildPagination(page, perPage, total))
}

// GetSurvey godoc
// GET /api/v1/teacher/surveys/:id
// One survey with its completion statistics.
func (h *SurveyAdminHandler) GetSurvey(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	stats, err := h.surveyService.Stats(c.Request.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"survey": stats})
}

// CreateSurvey godoc
// POST /api/v1/teacher/surveys
// Flagging the new survey default demotes any previous default atomically.
func (h *SurveyAdminHandler) CreateSurvey(c *gin.Context) {
	var req model.CreateSurveyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	survey, err := h.surveyService.CreateSurvey(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"survey": survey})
}

// UpdateSurvey godoc
// PUT /api/v1/teacher/surveys/:id
func (h *SurveyAdminHandler) UpdateSurvey(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSurveyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	survey, err := h.surveyService.UpdateSurvey(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"survey": survey})
}

// DeleteSurvey godoc
// DELETE /api/v1/teacher/surveys/:id
// Removes the survey and cascades to its responses.
func (h *SurveyAdminHandler) DeleteSurvey(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.surveyService.DeleteSurvey(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListStudentsByCompletion godoc
// GET /api/v1/teacher/surveys/:id/students?completed=true|false
// Lists the teacher's students that have, or have not, submitted a response.
func (h *SurveyAdminHandler) ListStudentsByCompletion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage, limit, offset := pageParams(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	completed := true
	if v := c.Query("completed"); v != "" {
		completed, err = strconv.ParseBool(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
	}

	students, total, err := h.surveyService.StudentsByCompletion(c.Request.Context(), claims.UserID, id, completed, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, buildPagination(page, perPage, total))
}

// GetStudentResponse godoc
// GET /api/v1/teacher/surveys/:id/responses/:student_no
// One student's submission with display labels, null when not yet submitted.
func (h *SurveyAdminHandler) GetStudentResponse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentNo := c.Param("student_no")

	resp, err := h.surveyService.StudentResponseForTeacher(c.Request.Context(), claims.UserID, id, studentNo)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if resp == nil {
		response.Success(c, http.StatusOK, gin.H{"response": nil})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"response": resp.View()})
}
