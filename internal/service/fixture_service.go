package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/creativityhunt/creahunt/internal/fixtures"
	"github.com/creativityhunt/creahunt/internal/model"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
	"github.com/creativityhunt/creahunt/internal/pkg/timeutil"
	"github.com/creativityhunt/creahunt/internal/repo"
)

// FixtureService loads the embedded catalog fixtures into the database.
// Seeding is idempotent: rows whose slug already exists are skipped.
type FixtureService struct {
	categories *repo.CategoryRepo
	tools      *repo.ToolRepo
}

func NewFixtureService(categories *repo.CategoryRepo, tools *repo.ToolRepo) *FixtureService {
	return &FixtureService{categories: categories, tools: tools}
}

func (s *FixtureService) Seed(ctx context.Context) error {
	categoryItems, err := fixtures.Categories()
	if err != nil {
		return err
	}
	idBySlug := make(map[string]string, len(categoryItems))
	for _, item := range categoryItems {
		existing, err := s.categories.GetBySlug(ctx, item.Slug)
		if err == nil {
			idBySlug[item.Slug] = existing.ID
			continue
		}
		if !appErr.IsNotFound(err) {
			return err
		}
		category := &model.Category{
			ID:          newID(),
			Slug:        item.Slug,
			Name:        item.Name,
			Description: item.Description,
			Icon:        item.Icon,
			SortOrder:   item.SortOrder,
		}
		if err := s.categories.Create(ctx, category); err != nil && !appErr.IsConflict(err) {
			return err
		}
		idBySlug[item.Slug] = category.ID
	}

	toolItems, err := fixtures.Tools()
	if err != nil {
		return err
	}
	now := timeutil.NowUnix()
	seeded := 0
	for _, item := range toolItems {
		categoryID, ok := idBySlug[item.Category]
		if !ok {
			return fmt.Errorf("tool %s references unknown category %s", item.Slug, item.Category)
		}
		if _, err := s.tools.GetBySlug(ctx, item.Slug); err == nil {
			continue
		} else if !appErr.IsNotFound(err) {
			return err
		}
		featured := 0
		if item.Featured {
			featured = 1
		}
		tool := &model.Tool{
			ID:          newID(),
			Slug:        item.Slug,
			Name:        item.Name,
			Tagline:     item.Tagline,
			Description: item.Description,
			Website:     item.Website,
			Logo:        item.Logo,
			Pricing:     item.Pricing,
			Rating:      item.Rating,
			CategoryID:  categoryID,
			Featured:    featured,
			Ctime:       now,
			Mtime:       now,
		}
		if err := s.tools.Create(ctx, tool); err != nil && !appErr.IsConflict(err) {
			return err
		}
		seeded++
	}
	logutil.GetLogger(ctx).Info("fixtures seeded",
		zap.Int("categories", len(categoryItems)),
		zap.Int("tools_inserted", seeded),
	)
	return nil
}
