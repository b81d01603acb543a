package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creativityhunt/creahunt/internal/model"
	"github.com/creativityhunt/creahunt/internal/pkg/timeutil"
	"github.com/creativityhunt/creahunt/internal/repo"
	"github.com/creativityhunt/creahunt/test/testutil"
)

func TestToolRepoFilterAndCount(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	categories := repo.NewCategoryRepo(db)
	tools := repo.NewToolRepo(db)
	ctx := context.Background()
	now := timeutil.NowUnix()

	category := &model.Category{ID: newTestID(), Slug: "writing-" + newTestID()[:8], Name: "Writing"}
	require.NoError(t, categories.Create(ctx, category))

	marker := newTestID()[:8]
	items := []*model.Tool{
		{ID: newTestID(), Slug: "draftpilot-" + marker, Name: "DraftPilot " + marker, Pricing: model.PricingFree, Rating: 4.2, CategoryID: category.ID, Ctime: now, Mtime: now},
		{ID: newTestID(), Slug: "prosesmith-" + marker, Name: "ProseSmith " + marker, Pricing: model.PricingPaid, Rating: 4.8, CategoryID: category.ID, Ctime: now + 1, Mtime: now + 1},
	}
	for _, item := range items {
		require.NoError(t, tools.Create(ctx, item))
	}

	filter := repo.ToolFilter{CategoryID: category.ID, Limit: 10}
	list, err := tools.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, list, 2)

	total, err := tools.Count(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 2, total)

	filter.Keyword = "ProseSmith " + marker
	list, err = tools.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, items[1].Slug, list[0].Slug)

	filter.Keyword = ""
	filter.Pricing = model.PricingFree
	total, err = tools.Count(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestToolRepoSortOrder(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	categories := repo.NewCategoryRepo(db)
	tools := repo.NewToolRepo(db)
	ctx := context.Background()
	now := timeutil.NowUnix()

	category := &model.Category{ID: newTestID(), Slug: "audio-" + newTestID()[:8], Name: "Audio"}
	require.NoError(t, categories.Create(ctx, category))

	low := &model.Tool{ID: newTestID(), Slug: "lowtone-" + newTestID()[:8], Name: "LowTone", Pricing: model.PricingFree, Rating: 3.1, CategoryID: category.ID, Ctime: now, Mtime: now}
	high := &model.Tool{ID: newTestID(), Slug: "hightone-" + newTestID()[:8], Name: "HighTone", Pricing: model.PricingFree, Rating: 4.9, CategoryID: category.ID, Ctime: now + 1, Mtime: now + 1}
	require.NoError(t, tools.Create(ctx, low))
	require.NoError(t, tools.Create(ctx, high))

	list, err := tools.List(ctx, repo.ToolFilter{CategoryID: category.ID, Sort: "rating", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, high.Slug, list[0].Slug)

	list, err = tools.List(ctx, repo.ToolFilter{CategoryID: category.ID, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, high.Slug, list[0].Slug) // newest first by default
}
