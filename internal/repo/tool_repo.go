package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/creativityhunt/creahunt/internal/model"
	"github.com/creativityhunt/creahunt/internal/pkg/dbutil"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
)

var toolFields = []string{"id", "slug", "name", "tagline", "description", "website", "logo",
	"pricing", "rating", "category_id", "featured", "ctime", "mtime"}

type ToolFilter struct {
	CategoryID string
	Pricing    string
	Keyword    string
	Sort       string
	Offset     uint
	Limit      uint
}

type ToolRepo struct {
	db *sql.DB
}

func NewToolRepo(db *sql.DB) *ToolRepo {
	return &ToolRepo{db: db}
}

func (r *ToolRepo) Create(ctx context.Context, tool *model.Tool) error {
	data := map[string]interface{}{
		"id":          tool.ID,
		"slug":        tool.Slug,
		"name":        tool.Name,
		"tagline":     tool.Tagline,
		"description": tool.Description,
		"website":     tool.Website,
		"logo":        tool.Logo,
		"pricing":     tool.Pricing,
		"rating":      tool.Rating,
		"category_id": tool.CategoryID,
		"featured":    tool.Featured,
		"ctime":       tool.Ctime,
		"mtime":       tool.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("tools", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ToolRepo) GetBySlug(ctx context.Context, slug string) (*model.Tool, error) {
	where := map[string]interface{}{"slug": slug}
	items, err := r.query(ctx, where)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, appErr.ErrNotFound
	}
	return items[0], nil
}

func (r *ToolRepo) List(ctx context.Context, filter ToolFilter) ([]*model.Tool, error) {
	where := filterWhere(filter)
	where["_orderby"] = orderBy(filter.Sort)
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	where["_limit"] = []uint{filter.Offset, limit}
	return r.query(ctx, where)
}

func (r *ToolRepo) Count(ctx context.Context, filter ToolFilter) (int, error) {
	where := filterWhere(filter)
	sqlStr, args, err := builder.BuildSelect("tools", where, []string{"count(1)"})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ToolRepo) ListFeatured(ctx context.Context, limit uint) ([]*model.Tool, error) {
	if limit == 0 {
		limit = 8
	}
	where := map[string]interface{}{
		"featured": 1,
		"_orderby": "rating desc",
		"_limit":   []uint{0, limit},
	}
	return r.query(ctx, where)
}

func filterWhere(filter ToolFilter) map[string]interface{} {
	where := map[string]interface{}{}
	if filter.CategoryID != "" {
		where["category_id"] = filter.CategoryID
	}
	if filter.Pricing != "" {
		where["pricing"] = filter.Pricing
	}
	if filter.Keyword != "" {
		where["name like"] = "%" + filter.Keyword + "%"
	}
	return where
}

func orderBy(sort string) string {
	switch sort {
	case "name":
		return "name asc"
	case "rating":
		return "rating desc"
	default:
		return "ctime desc"
	}
}

func (r *ToolRepo) query(ctx context.Context, where map[string]interface{}) ([]*model.Tool, error) {
	sqlStr, args, err := builder.BuildSelect("tools", where, toolFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []*model.Tool
	for rows.Next() {
		var item model.Tool
		if err := rows.Scan(&item.ID, &item.Slug, &item.Name, &item.Tagline, &item.Description,
			&item.Website, &item.Logo, &item.Pricing, &item.Rating, &item.CategoryID,
			&item.Featured, &item.Ctime, &item.Mtime); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
