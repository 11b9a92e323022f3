package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gradsys/gradtrack-backend/internal/middleware"
	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/gradsys/gradtrack-backend/internal/response"
	"github.com/gradsys/gradtrack-backend/internal/service"
	"github.com/gradsys/gradtrack-backend/internal/validator"
)

// StudentSurveyHandler handles the student-facing survey endpoints.
type StudentSurveyHandler struct {
	surveyService *service.SurveyService
}

// NewStudentSurveyHandler creates a new StudentSurveyHandler.
func NewStudentSurveyHandler(surveyService *service.SurveyService) *StudentSurveyHandler {
	return &StudentSurveyHandler{surveyService: surveyService}
}

// GetSurvey godoc
// GET /api/v1/student/survey?survey_id=N
// Returns the selected survey (explicit id, else the default, else the
// newest open one) plus a summary of every open survey.
func (h *StudentSurveyHandler) GetSurvey(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var explicitID *int
	if v := c.Query("survey_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		explicitID = &id
	}

	overview, err := h.surveyService.StudentSurveys(c.Request.Context(), claims.UserID, explicitID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSurveyNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNoSurveyAvailable):
			response.Fail(c, http.StatusNotFound, response.ErrNoSurveyAvailable)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, overview)
}

// SubmitSurvey godoc
// POST /api/v1/student/survey/submit
// Records the student's response. One response per survey; the survey must
// be inside its submission window.
func (h *StudentSurveyHandler) SubmitSurvey(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SubmitSurveyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.surveyService.Submit(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		var closed *service.SurveyClosedError
		var planErr *model.PlanFieldError
		switch {
		case errors.Is(err, service.ErrSurveyNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.As(err, &closed):
			response.FailWithMessage(c, http.StatusForbidden, response.ErrSurveyClosed, closed.Error())
		case errors.Is(err, model.ErrInvalidFuturePlan):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidEnumValue, err.Error())
		case errors.As(err, &planErr):
			if planErr.Invalid {
				response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidEnumValue, planErr.Error())
			} else {
				response.FailWithMessage(c, http.StatusBadRequest, response.ErrMissingRequiredField, planErr.Error())
			}
		case errors.Is(err, repository.ErrDuplicateResponse):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateSubmission)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"response": resp.View()})
}

// GetMyResponse godoc
// GET /api/v1/student/survey/:id/response
// Returns the student's own submission for a survey, null when none exists.
func (h *StudentSurveyHandler) GetMyResponse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	surveyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	resp, err := h.surveyService.MyResponse(c.Request.Context(), claims.UserID, surveyID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if resp == nil {
		response.Success(c, http.StatusOK, gin.H{"response": nil})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"response": resp.View()})
}
