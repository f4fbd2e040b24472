package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

type Items struct {
	store      store.Store
	access     *Access
	categories *Categories
	logger     *zap.SugaredLogger
}

func NewItems(st store.Store, access *Access, categories *Categories, logger *zap.SugaredLogger) *Items {
	return &Items{store: st, access: access, categories: categories, logger: logger}
}

func (s *Items) List(ctx context.Context, listID, userID string) ([]models.ItemDetail, error) {
	if _, err := s.access.ResolveListAccess(ctx, listID, userID); err != nil {
		return nil, err
	}
	return s.store.ItemsByList(ctx, listID)
}

// Create appends an item to the list. Position is assigned by the
// store: one past the current maximum, so deleted positions are never
// reused.
func (s *Items) Create(ctx context.Context, listID, userID string, req models.CreateItemRequest) (*models.ItemDetail, error) {
	if _, err := s.access.requireEditAccess(ctx, listID, userID); err != nil {
		return nil, err
	}

	category, err := s.resolveCategoryRef(ctx, listID, req.CategoryID, req.CategoryType)
	if err != nil {
		return nil, err
	}

	item := &models.ListItem{
		ID:          uuid.New().String(),
		ListID:      listID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return s.store.ItemDetailByID(ctx, item.ID)
}

// Update applies a partial update. Clearing the category clears id and
// type together; changing the category id without an explicit type
// revalidates under the item's current type.
func (s *Items) Update(ctx context.Context, itemID, listID, userID string, req models.UpdateItemRequest) (*models.ItemDetail, error) {
	if _, err := s.access.requireEditAccess(ctx, listID, userID); err != nil {
		return nil, err
	}

	item, err := s.itemInList(ctx, itemID, listID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description.Set {
		item.Description = req.Description.Value
	}
	if req.IsCompleted != nil {
		item.IsCompleted = *req.IsCompleted
	}

	if req.CategoryID.Set {
		if req.CategoryID.Value == nil {
			item.Category = nil
		} else {
			categoryType := req.CategoryType
			if categoryType == nil && item.Category != nil {
				categoryType = &item.Category.Type
			}
			if categoryType == nil {
				return nil, apperror.Validation("categoryType is required when assigning a category")
			}
			ref := models.CategoryRef{ID: *req.CategoryID.Value, Type: *categoryType}
			if err := s.validateRef(ctx, ref, listID); err != nil {
				return nil, err
			}
			item.Category = &ref
		}
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return s.store.ItemDetailByID(ctx, itemID)
}

func (s *Items) Delete(ctx context.Context, itemID, listID, userID string) error {
	if _, err := s.access.requireEditAccess(ctx, listID, userID); err != nil {
		return err
	}

	if _, err := s.itemInList(ctx, itemID, listID); err != nil {
		return err
	}

	return s.store.DeleteItem(ctx, itemID)
}

// Reorder assigns position = index for every id in the given order.
// Ids outside the list are an error, not a silent skip; subsets that
// omit some of the list's items are allowed.
func (s *Items) Reorder(ctx context.Context, listID, userID string, itemIDs []string) error {
	if _, err := s.access.requireEditAccess(ctx, listID, userID); err != nil {
		return err
	}

	found, err := s.store.ItemIDsInList(ctx, listID, itemIDs)
	if err != nil {
		return err
	}
	foundSet := make(map[string]struct{}, len(found))
	for _, id := range found {
		foundSet[id] = struct{}{}
	}
	for _, id := range itemIDs {
		if _, ok := foundSet[id]; !ok {
			return apperror.NotFound("Some items do not belong to this list")
		}
	}

	return s.store.UpdateItemPositions(ctx, itemIDs)
}

func (s *Items) resolveCategoryRef(ctx context.Context, listID string, categoryID *string, categoryType *models.CategoryType) (*models.CategoryRef, error) {
	if categoryID == nil && categoryType == nil {
		return nil, nil
	}
	if categoryID == nil || categoryType == nil {
		return nil, apperror.Validation("categoryId and categoryType must be provided together")
	}

	ref := models.CategoryRef{ID: *categoryID, Type: *categoryType}
	if err := s.validateRef(ctx, ref, listID); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *Items) validateRef(ctx context.Context, ref models.CategoryRef, listID string) error {
	valid, err := s.categories.ValidateForList(ctx, ref, listID)
	if err != nil {
		return err
	}
	if !valid {
		return apperror.Validation("Invalid category for this list")
	}
	return nil
}

func (s *Items) itemInList(ctx context.Context, itemID, listID string) (*models.ListItem, error) {
	item, err := s.store.ItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ListID != listID {
		return nil, apperror.NotFound("List item does not belong to this list")
	}
	return item, nil
}
