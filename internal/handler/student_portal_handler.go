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

// StudentPortalHandler handles the student-facing profile, classmates and
// notice endpoints.
type StudentPortalHandler struct {
	studentService *service.StudentService
	noticeService  *service.NoticeService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(studentService *service.StudentService, noticeService *service.NoticeService) *StudentPortalHandler {
	return &StudentPortalHandler{studentService: studentService, noticeService: noticeService}
}

// GetProfile godoc
// GET /api/v1/student/profile
// Returns the student's profile with class, teacher and unread-notice context.
func (h *StudentPortalHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	profile, err := h.studentService.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile godoc
// PUT /api/v1/student/profile
// Applies partial updates to the student's own profile. Declaring further
// study requires the study school and major.
func (h *StudentPortalHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.UpdateStudentProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.UpdateProfile(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudyFieldsRequired):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrMissingRequiredField, err.Error())
		case errors.Is(err, repository.ErrDuplicatePhone):
			response.Fail(c, http.StatusConflict, response.ErrDuplicatePhone)
		case errors.Is(err, service.ErrStudentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// ChangePassword godoc
// PUT /api/v1/student/password
func (h *StudentPortalHandler) ChangePassword(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.studentService.ChangePassword(c.Request.Context(), claims.UserID, &req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListClassmates godoc
// GET /api/v1/student/classmates
// Lists students of the same class with optional name search.
func (h *StudentPortalHandler) ListClassmates(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage, limit, offset := pageParams(c)
	search := c.Query("search")

	students, total, err := h.studentService.Classmates(c.Request.Context(), claims.ClassID, search, limit, offset)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"classmates": students}, buildPagination(page, perPage, total))
}

// ListNotices godoc
// GET /api/v1/student/notices
// Lists the notices of the student's class teacher, newest first, with an
// optional ?is_read filter.
func (h *StudentPortalHandler) ListNotices(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage, limit, offset := pageParams(c)

	var isRead *bool
	if v := c.Query("is_read"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		isRead = &parsed
	}

	notices, total, err := h.noticeService.ListForStudent(c.Request.Context(), claims.UserID, claims.ClassID, isRead, limit, offset)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"notices": notices}, buildPagination(page, perPage, total))
}

// GetUnreadNoticeCount godoc
// GET /api/v1/student/notices/unread-count
func (h *StudentPortalHandler) GetUnreadNoticeCount(c *gin.Context) {
	claims := middleware.GetClaims(c)

	count, err := h.noticeService.UnreadCount(c.Request.Context(), claims.UserID, claims.ClassID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unread_count": count})
}

// MarkNoticesRead godoc
// POST /api/v1/student/notices/mark-read
// Marks a batch of notices read; already-read and out-of-scope IDs are
// skipped.
func (h *StudentPortalHandler) MarkNoticesRead(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.MarkNoticesReadRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	marked, err := h.noticeService.MarkRead(c.Request.Context(), claims.UserID, claims.ClassID, req.NoticeIDs)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked": marked})
}

// MarkNoticeRead godoc
// POST /api/v1/student/notices/:id/read
func (h *StudentPortalHandler) MarkNoticeRead(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	marked, err := h.noticeService.MarkRead(c.Request.Context(), claims.UserID, claims.ClassID, []int{id})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": marked})
}
