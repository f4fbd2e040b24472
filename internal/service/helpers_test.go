package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

type fixture struct {
	store      *store.Memory
	access     *Access
	lists      *Lists
	categories *Categories
	items      *Items
	shares     *Shares
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.NewMemory()
	logger := zap.NewNop().Sugar()
	access := NewAccess(st)
	categories := NewCategories(st, access, logger)
	return &fixture{
		store:      st,
		access:     access,
		lists:      NewLists(st, access, logger),
		categories: categories,
		items:      NewItems(st, access, categories, logger),
		shares:     NewShares(st, logger),
	}
}

func (f *fixture) createUser(t *testing.T, name, login string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Login:        login,
		PasswordHash: "x",
	}
	require.NoError(t, f.store.CreateUser(context.Background(), user))
	return user
}

func (f *fixture) createList(t *testing.T, authorID, name string) *models.List {
	t.Helper()

	list := &models.List{
		ID:       uuid.New().String(),
		Name:     name,
		AuthorID: authorID,
	}
	require.NoError(t, f.store.CreateList(context.Background(), list))
	return list
}

func (f *fixture) shareList(t *testing.T, listID, userID string) {
	t.Helper()

	share := &models.ListShare{
		ID:     uuid.New().String(),
		ListID: listID,
		UserID: userID,
		Role:   models.RoleEditor,
	}
	require.NoError(t, f.store.CreateShare(context.Background(), share))
}

func (f *fixture) createPersonalCategory(t *testing.T, userID, name string) *models.Category {
	t.Helper()

	category, err := f.categories.CreatePersonal(context.Background(), userID, name, "tag")
	require.NoError(t, err)
	return category
}

func (f *fixture) createLocalCategory(t *testing.T, listID, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Icon:   "tag",
		ListID: &listID,
	}
	require.NoError(t, f.store.CreateCategory(context.Background(), category))
	return category
}
