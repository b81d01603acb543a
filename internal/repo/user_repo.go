package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/creativityhunt/creahunt/internal/model"
	"github.com/creativityhunt/creahunt/internal/pkg/dbutil"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
)

var userFields = []string{"id", "email", "name", "password_hash", "avatar", "provider", "last_login_at", "ctime", "mtime"}

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"password_hash": user.PasswordHash,
		"avatar":        user.Avatar,
		"provider":      user.Provider,
		"last_login_at": user.LastLoginAt,
		"ctime":         user.Ctime,
		"mtime":         user.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{data})
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

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"id": userID})
}

func (r *UserRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.User, error) {
	sqlStr, args, err := builder.BuildSelect("users", where, userFields)
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
	var user model.User
	if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Avatar,
		&user.Provider, &user.LastLoginAt, &user.Ctime, &user.Mtime); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLoginInfo refreshes the mutable identity fields on login. Empty
// name/avatar/provider values are left untouched.
func (r *UserRepo) UpdateLoginInfo(ctx context.Context, userID string, name, avatar, provider string, loginAt int64) error {
	update := map[string]interface{}{
		"last_login_at": loginAt,
		"mtime":         loginAt,
	}
	if name != "" {
		update["name"] = name
	}
	if avatar != "" {
		update["avatar"] = avatar
	}
	if provider != "" {
		update["provider"] = provider
	}
	return r.update(ctx, userID, update)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string, mtime int64) error {
	return r.update(ctx, userID, map[string]interface{}{
		"password_hash": passwordHash,
		"mtime":         mtime,
	})
}

func (r *UserRepo) update(ctx context.Context, userID string, update map[string]interface{}) error {
	where := map[string]interface{}{"id": userID}
	sqlStr, args, err := builder.BuildUpdate("users", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
