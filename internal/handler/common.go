package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gradsys/gradtrack-backend/internal/response"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// pageParams reads ?page and ?per_page with sane bounds and returns them
// together with the SQL limit/offset.
func pageParams(c *gin.Context) (page, perPage, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, perPage, (page - 1) * perPage
}

// buildPagination assembles the pagination block from a page request and the
// total row count.
func buildPagination(page, perPage, total int) *response.Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
