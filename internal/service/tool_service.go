package service

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/creativityhunt/creahunt/internal/model"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
	"github.com/creativityhunt/creahunt/internal/repo"
)

const toolDetailCacheSize = 256

type ToolListQuery struct {
	Category string
	Pricing  string
	Keyword  string
	Sort     string
	Page     int
	PageSize int
}

type ToolListResult struct {
	Items    []*model.Tool `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type ToolService struct {
	tools      *repo.ToolRepo
	categories *repo.CategoryRepo
	detail     *lru.Cache[string, *model.Tool]
}

func NewToolService(tools *repo.ToolRepo, categories *repo.CategoryRepo) (*ToolService, error) {
	cache, err := lru.New[string, *model.Tool](toolDetailCacheSize)
	if err != nil {
		return nil, err
	}
	return &ToolService{tools: tools, categories: categories, detail: cache}, nil
}

func (s *ToolService) List(ctx context.Context, query ToolListQuery) (*ToolListResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}
	filter := repo.ToolFilter{
		Pricing: normalizePricing(query.Pricing),
		Keyword: strings.TrimSpace(query.Keyword),
		Sort:    query.Sort,
		Offset:  uint((query.Page - 1) * query.PageSize),
		Limit:   uint(query.PageSize),
	}
	if slug := strings.TrimSpace(query.Category); slug != "" {
		category, err := s.categories.GetBySlug(ctx, slug)
		if err != nil {
			if appErr.IsNotFound(err) {
				return &ToolListResult{Items: []*model.Tool{}, Page: query.Page, PageSize: query.PageSize}, nil
			}
			return nil, err
		}
		filter.CategoryID = category.ID
	}
	items, err := s.tools.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tools.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Tool{}
	}
	return &ToolListResult{Items: items, Total: total, Page: query.Page, PageSize: query.PageSize}, nil
}

func (s *ToolService) GetBySlug(ctx context.Context, slug string) (*model.Tool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, appErr.ErrInvalid
	}
	if tool, ok := s.detail.Get(slug); ok {
		return tool, nil
	}
	tool, err := s.tools.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.detail.Add(slug, tool)
	return tool, nil
}

func (s *ToolService) ListFeatured(ctx context.Context) ([]*model.Tool, error) {
	items, err := s.tools.ListFeatured(ctx, 8)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Tool{}
	}
	return items, nil
}

func normalizePricing(pricing string) string {
	switch strings.ToLower(strings.TrimSpace(pricing)) {
	case model.PricingFree:
		return model.PricingFree
	case model.PricingFreemium:
		return model.PricingFreemium
	case model.PricingPaid:
		return model.PricingPaid
	default:
		return ""
	}
}
