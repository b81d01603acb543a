package service

import (
	"context"

	"github.com/creativityhunt/creahunt/internal/model"
	"github.com/creativityhunt/creahunt/internal/repo"
)

type CategoryService struct {
	categories *repo.CategoryRepo
}

func NewCategoryService(categories *repo.CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	items, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.categories.ToolCounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.ToolCount = counts[item.ID]
	}
	if items == nil {
		items = []*model.Category{}
	}
	return items, nil
}
