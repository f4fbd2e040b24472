package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/models"
)

func TestItemsCreateAppendsPositions(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	list := f.createList(t, owner.ID, "Groceries")
	ctx := context.Background()

	milk, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Milk"})
	require.NoError(t, err)
	bread, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Bread"})
	require.NoError(t, err)
	eggs, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Eggs"})
	require.NoError(t, err)

	assert.Equal(t, 0, milk.Position)
	assert.Equal(t, 1, bread.Position)
	assert.Equal(t, 2, eggs.Position)
}

// Deleting an item leaves a gap; the next insert goes past the maximum
// instead of filling it.
func TestItemsCreateDoesNotReuseDeletedPositions(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	list := f.createList(t, owner.ID, "Groceries")
	ctx := context.Background()

	_, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Milk"})
	require.NoError(t, err)
	bread, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Bread"})
	require.NoError(t, err)
	_, err = f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Eggs"})
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, bread.ID, list.ID, owner.ID))

	butter, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Butter"})
	require.NoError(t, err)
	assert.Equal(t, 3, butter.Position)
}

func TestItemsCreatePositionsArePerList(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	groceries := f.createList(t, owner.ID, "Groceries")
	hardware := f.createList(t, owner.ID, "Hardware")
	ctx := context.Background()

	_, err := f.items.Create(ctx, groceries.ID, owner.ID, models.CreateItemRequest{Title: "Milk"})
	require.NoError(t, err)

	nails, err := f.items.Create(ctx, hardware.ID, owner.ID, models.CreateItemRequest{Title: "Nails"})
	require.NoError(t, err)
	assert.Equal(t, 0, nails.Position)
}

func TestItemsCreateCategoryPairValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	list := f.createList(t, owner.ID, "Groceries")
	category := f.createPersonalCategory(t, owner.ID, "Dairy")
	ctx := context.Background()

	userType := models.CategoryTypeUser

	_, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{
		Title:      "Milk",
		CategoryID: &category.ID,
	})
	require.Error(t, err)
	appErr, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)

	_, err = f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{
		Title:        "Milk",
		CategoryType: &userType,
	})
	require.Error(t, err)

	item, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{
		Title:        "Milk",
		CategoryID:   &category.ID,
		CategoryType: &userType,
	})
	require.NoError(t, err)
	require.NotNil(t, item.CategoryID)
	assert.Equal(t, category.ID, *item.CategoryID)
	require.NotNil(t, item.CategoryName)
	assert.Equal(t, "Dairy", *item.CategoryName)
}

func TestItemsCreateRejectsForeignPersonalCategory(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	editor := f.createUser(t, "Ben", "ben")
	list := f.createList(t, owner.ID, "Groceries")
	f.shareList(t, list.ID, editor.ID)
	private := f.createPersonalCategory(t, editor.ID, "Private")
	ctx := context.Background()

	userType := models.CategoryTypeUser
	_, err := f.items.Create(ctx, list.ID, editor.ID, models.CreateItemRequest{
		Title:        "Milk",
		CategoryID:   &private.ID,
		CategoryType: &userType,
	})
	require.Error(t, err)
	appErr, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestItemsUpdatePartialFields(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	list := f.createList(t, owner.ID, "Groceries")
	ctx := context.Background()

	desc := "2 liters"
	item, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Milk", Description: &desc})
	require.NoError(t, err)

	done := true
	updated, err := f.items.Update(ctx, item.ID, list.ID, owner.ID, models.UpdateItemRequest{IsCompleted: &done})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "2 liters", *updated.Description)

	// Explicit null clears the description; an absent key would not.
	updated, err = f.items.Update(ctx, item.ID, list.ID, owner.ID, models.UpdateItemRequest{
		Description: models.Optional[string]{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
}

func TestItemsUpdateCategoryClearAndReassign(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	list := f.createList(t, owner.ID, "Groceries")
	dairy := f.createPersonalCategory(t, owner.ID, "Dairy")
	bakery := f.createPersonalCategory(t, owner.ID, "Bakery")
	ctx := context.Background()

	userType := models.CategoryTypeUser
	item, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{
		Title:        "Milk",
		CategoryID:   &dairy.ID,
		CategoryType: &userType,
	})
	require.NoError(t, err)

	// Changing only the id keeps the current type.
	updated, err := f.items.Update(ctx, item.ID, list.ID, owner.ID, models.UpdateItemRequest{
		CategoryID: models.Optional[string]{Set: true, Value: &bakery.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, bakery.ID, *updated.CategoryID)

	// Explicit null clears id and type together.
	updated, err = f.items.Update(ctx, item.ID, list.ID, owner.ID, models.UpdateItemRequest{
		CategoryID: models.Optional[string]{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.CategoryType)
}

func TestItemsUpdateCategoryWithoutTypeOnUncategorizedItem(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	list := f.createList(t, owner.ID, "Groceries")
	dairy := f.createPersonalCategory(t, owner.ID, "Dairy")
	ctx := context.Background()

	item, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Milk"})
	require.NoError(t, err)

	_, err = f.items.Update(ctx, item.ID, list.ID, owner.ID, models.UpdateItemRequest{
		CategoryID: models.Optional[string]{Set: true, Value: &dairy.ID},
	})
	require.Error(t, err)
	appErr, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestItemsUpdateItemFromAnotherList(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	groceries := f.createList(t, owner.ID, "Groceries")
	hardware := f.createList(t, owner.ID, "Hardware")
	ctx := context.Background()

	item, err := f.items.Create(ctx, groceries.ID, owner.ID, models.CreateItemRequest{Title: "Milk"})
	require.NoError(t, err)

	title := "Nails"
	_, err = f.items.Update(ctx, item.ID, hardware.ID, owner.ID, models.UpdateItemRequest{Title: &title})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestItemsReorder(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	list := f.createList(t, owner.ID, "Groceries")
	ctx := context.Background()

	milk, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Milk"})
	require.NoError(t, err)
	bread, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Bread"})
	require.NoError(t, err)
	eggs, err := f.items.Create(ctx, list.ID, owner.ID, models.CreateItemRequest{Title: "Eggs"})
	require.NoError(t, err)

	require.NoError(t, f.items.Reorder(ctx, list.ID, owner.ID, []string{eggs.ID, milk.ID, bread.ID}))

	items, err := f.items.List(ctx, list.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Eggs", items[0].Title)
	assert.Equal(t, "Milk", items[1].Title)
	assert.Equal(t, "Bread", items[2].Title)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, 1, items[1].Position)
	assert.Equal(t, 2, items[2].Position)
}

func TestItemsReorderRejectsForeignItems(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	groceries := f.createList(t, owner.ID, "Groceries")
	hardware := f.createList(t, owner.ID, "Hardware")
	ctx := context.Background()

	milk, err := f.items.Create(ctx, groceries.ID, owner.ID, models.CreateItemRequest{Title: "Milk"})
	require.NoError(t, err)
	nails, err := f.items.Create(ctx, hardware.ID, owner.ID, models.CreateItemRequest{Title: "Nails"})
	require.NoError(t, err)

	err = f.items.Reorder(ctx, groceries.ID, owner.ID, []string{milk.ID, nails.ID})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestItemsMutationsByStrangerAreNotFound(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "Anna", "anna")
	stranger := f.createUser(t, "Eve", "eve")
	list := f.createList(t, owner.ID, "Groceries")
	ctx := context.Background()

	_, err := f.items.Create(ctx, list.ID, stranger.ID, models.CreateItemRequest{Title: "Milk"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.items.List(ctx, list.ID, stranger.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
