package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/creativityhunt/creahunt/internal/model"
	"github.com/creativityhunt/creahunt/internal/pkg/dbutil"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
)

var categoryFields = []string{"id", "slug", "name", "description", "icon", "sort_order"}

type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, category *model.Category) error {
	data := map[string]interface{}{
		"id":          category.ID,
		"slug":        category.Slug,
		"name":        category.Name,
		"description": category.Description,
		"icon":        category.Icon,
		"sort_order":  category.SortOrder,
	}
	sqlStr, args, err := builder.BuildInsert("categories", []map[string]interface{}{data})
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

func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	where := map[string]interface{}{"_orderby": "sort_order asc"}
	sqlStr, args, err := builder.BuildSelect("categories", where, categoryFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []*model.Category
	for rows.Next() {
		var item model.Category
		if err := rows.Scan(&item.ID, &item.Slug, &item.Name, &item.Description, &item.Icon, &item.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	where := map[string]interface{}{"slug": slug}
	sqlStr, args, err := builder.BuildSelect("categories", where, categoryFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var item model.Category
	if err := rows.Scan(&item.ID, &item.Slug, &item.Name, &item.Description, &item.Icon, &item.SortOrder); err != nil {
		return nil, err
	}
	return &item, nil
}

// ToolCounts returns tool totals grouped by category id.
func (r *CategoryRepo) ToolCounts(ctx context.Context) (map[string]int, error) {
	where := map[string]interface{}{"_groupby": "category_id"}
	sqlStr, args, err := builder.BuildSelect("tools", where, []string{"category_id", "count(1)"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	counts := make(map[string]int)
	for rows.Next() {
		var categoryID string
		var count int
		if err := rows.Scan(&categoryID, &count); err != nil {
			return nil, err
		}
		counts[categoryID] = count
	}
	return counts, rows.Err()
}
