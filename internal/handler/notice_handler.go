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

// NoticeHandler handles teacher-facing notice management.
type NoticeHandler struct {
	noticeService *service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler.
func NewNoticeHandler(noticeService *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

// ListNotices godoc
// GET /api/v1/teacher/notices
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage, limit, offset := pageParams(c)

	notices, total, err := h.noticeService.ListForTeacher(c.Request.Context(), claims.UserID, limit, offset)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"notices": notices}, buildPagination(page, perPage, total))
}

// GetNotice godoc
// GET /api/v1/teacher/notices/:id
func (h *NoticeHandler) GetNotice(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	notice, err := h.noticeService.GetForTeacher(c.Request.Context(), id, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"notice": notice})
}

// CreateNotice godoc
// POST /api/v1/teacher/notices
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateNoticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	notice, err := h.noticeService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"notice": notice})
}

// UpdateNotice godoc
// PUT /api/v1/teacher/notices/:id
func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateNoticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	notice, err := h.noticeService.Update(c.Request.Context(), id, claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"notice": notice})
}

// DeleteNotice godoc
// DELETE /api/v1/teacher/notices/:id
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.noticeService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListReaders godoc
// GET /api/v1/teacher/notices/:id/readers?read=true|false
// Pages through students that have read, or not yet read, the notice.
func (h *NoticeHandler) ListReaders(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, perPage, limit, offset := pageParams(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	wantRead := true
	if v := c.Query("read"); v != "" {
		wantRead, err = strconv.ParseBool(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
	}

	readers, total, err := h.noticeService.Readers(c.Request.Context(), id, claims.UserID, wantRead, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": readers}, buildPagination(page, perPage, total))
}
