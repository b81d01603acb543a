package repo_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creativityhunt/creahunt/internal/model"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
	"github.com/creativityhunt/creahunt/internal/pkg/timeutil"
	"github.com/creativityhunt/creahunt/internal/repo"
	"github.com/creativityhunt/creahunt/test/testutil"
)

func newTestID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func TestUserRepoCreateAndGet(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	users := repo.NewUserRepo(db)
	now := timeutil.NowUnix()
	user := &model.User{
		ID:    newTestID(),
		Email: newTestID()[:12] + "@example.com",
		Name:  "User_abc123",
		Ctime: now,
		Mtime: now,
	}
	require.NoError(t, users.Create(context.Background(), user))

	got, err := users.GetByEmail(context.Background(), user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.Name, got.Name)

	got, err = users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	users := repo.NewUserRepo(db)
	now := timeutil.NowUnix()
	email := newTestID()[:12] + "@example.com"
	first := &model.User{ID: newTestID(), Email: email, Name: "first", Ctime: now, Mtime: now}
	require.NoError(t, users.Create(context.Background(), first))

	second := &model.User{ID: newTestID(), Email: email, Name: "second", Ctime: now, Mtime: now}
	err := users.Create(context.Background(), second)
	require.ErrorIs(t, err, appErr.ErrConflict)
}

func TestUserRepoUpdateLoginInfo(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	users := repo.NewUserRepo(db)
	now := timeutil.NowUnix()
	user := &model.User{
		ID:    newTestID(),
		Email: newTestID()[:12] + "@example.com",
		Name:  "keepme",
		Ctime: now,
		Mtime: now,
	}
	require.NoError(t, users.Create(context.Background(), user))

	// empty name leaves the existing one in place
	require.NoError(t, users.UpdateLoginInfo(context.Background(), user.ID, "", "https://cdn.example.com/a.png", "google", now+10))

	got, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "keepme", got.Name)
	require.Equal(t, "https://cdn.example.com/a.png", got.Avatar)
	require.Equal(t, "google", got.Provider)
	require.Equal(t, now+10, got.LastLoginAt)
}

func TestUserRepoGetMissing(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	users := repo.NewUserRepo(db)
	_, err := users.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	err = users.UpdateLoginInfo(context.Background(), "missing-id", "x", "", "", timeutil.NowUnix())
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
