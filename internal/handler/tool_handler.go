package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/creativityhunt/creahunt/internal/pkg/response"
	"github.com/creativityhunt/creahunt/internal/service"
)

type ToolHandler struct {
	tools *service.ToolService
}

func NewToolHandler(tools *service.ToolService) *ToolHandler {
	return &ToolHandler{tools: tools}
}

func (h *ToolHandler) List(c *gin.Context) {
	query := service.ToolListQuery{
		Category: c.Query("category"),
		Pricing:  c.Query("pricing"),
		Keyword:  c.Query("q"),
		Sort:     c.Query("sort"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}
	result, err := h.tools.List(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *ToolHandler) Get(c *gin.Context) {
	tool, err := h.tools.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"tool": tool})
}

func (h *ToolHandler) Featured(c *gin.Context) {
	items, err := h.tools.ListFeatured(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
