package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/creativityhunt/creahunt/internal/pkg/response"
	"github.com/creativityhunt/creahunt/internal/service"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.categories.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}
