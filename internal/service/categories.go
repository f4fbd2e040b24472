package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

// Categories implements the category scoping rules: personal categories
// belong to one user and follow them across their lists, local
// categories belong to one list and exist so collaborators can tag
// items without writing into the owner's dictionary.
type Categories struct {
	store  store.Store
	access *Access
	logger *zap.SugaredLogger
}

func NewCategories(st store.Store, access *Access, logger *zap.SugaredLogger) *Categories {
	return &Categories{store: st, access: access, logger: logger}
}

func (s *Categories) ListPersonal(ctx context.Context, userID string) ([]models.Category, error) {
	return s.store.PersonalCategories(ctx, userID)
}

// ListForList returns the categories usable within a list: the owner's
// personal dictionary plus the list's local categories, sorted by name.
func (s *Categories) ListForList(ctx context.Context, listID, userID string) ([]models.ListCategory, error) {
	if _, err := s.access.ResolveListAccess(ctx, listID, userID); err != nil {
		return nil, err
	}

	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.CategoriesForList(ctx, list.AuthorID, listID)
	if err != nil {
		return nil, err
	}

	result := make([]models.ListCategory, 0, len(categories))
	for _, category := range categories {
		result = append(result, models.ListCategory{
			ID:      category.ID,
			Name:    category.Name,
			Icon:    category.Icon,
			Type:    category.Scope(),
			IsOwner: category.UserID == userID,
		})
	}
	return result, nil
}

func (s *Categories) CreatePersonal(ctx context.Context, userID, name, icon string) (*models.Category, error) {
	exists, err := s.store.PersonalCategoryExists(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("A category with this name already exists")
	}

	category := &models.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Icon:   icon,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateForList creates a category in the context of a list. The owner
// always gets a personal category (owners have no use for local scope);
// collaborators get a local category unique per list.
func (s *Categories) CreateForList(ctx context.Context, listID, userID, name, icon string) (*models.ListCategory, error) {
	if _, err := s.access.ResolveListAccess(ctx, listID, userID); err != nil {
		return nil, err
	}

	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	if list.AuthorID == userID {
		category, err := s.CreatePersonal(ctx, userID, name, icon)
		if err != nil {
			return nil, err
		}
		return &models.ListCategory{
			ID:      category.ID,
			Name:    category.Name,
			Icon:    category.Icon,
			Type:    models.CategoryTypeUser,
			IsOwner: true,
		}, nil
	}

	exists, err := s.store.LocalCategoryExists(ctx, listID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("A local category with this name already exists in this list")
	}

	category := &models.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Icon:   icon,
		ListID: &listID,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return &models.ListCategory{
		ID:      category.ID,
		Name:    category.Name,
		Icon:    category.Icon,
		Type:    models.CategoryTypeLocal,
		IsOwner: true,
	}, nil
}

func (s *Categories) UpdatePersonal(ctx context.Context, categoryID, userID string, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.personalOwnedBy(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	icon := category.Icon
	if req.Icon != nil {
		icon = *req.Icon
	}

	if name != category.Name {
		exists, err := s.store.PersonalCategoryExists(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Conflict("A category with this name already exists")
		}
	}

	if err := s.store.UpdateCategory(ctx, categoryID, name, icon); err != nil {
		return nil, err
	}

	category.Name = name
	category.Icon = icon
	return category, nil
}

func (s *Categories) DeletePersonal(ctx context.Context, categoryID, userID string) error {
	if _, err := s.personalOwnedBy(ctx, categoryID, userID); err != nil {
		return err
	}
	return s.store.DeleteCategory(ctx, categoryID)
}

// DeleteLocal removes a local category. Only its creator or the list
// owner may do so; other collaborators get Forbidden.
func (s *Categories) DeleteLocal(ctx context.Context, categoryID, listID, userID string) error {
	if _, err := s.access.ResolveListAccess(ctx, listID, userID); err != nil {
		return err
	}

	category, err := s.localInList(ctx, categoryID, listID)
	if err != nil {
		return err
	}

	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return err
	}

	if category.UserID != userID && list.AuthorID != userID {
		return apperror.Forbidden("You do not have permission to delete this category")
	}

	return s.store.DeleteCategory(ctx, categoryID)
}

// SaveToUser copies a local category into the requesting user's own
// personal scope. The local row is left untouched so other
// collaborators can save the same category independently.
func (s *Categories) SaveToUser(ctx context.Context, categoryID, listID, userID string) (*models.Category, error) {
	if _, err := s.access.ResolveListAccess(ctx, listID, userID); err != nil {
		return nil, err
	}

	local, err := s.localInList(ctx, categoryID, listID)
	if err != nil {
		return nil, err
	}

	return s.copyToPersonal(ctx, local, userID)
}

// ImportToOwner copies a local category into the list owner's personal
// scope. Owner only, regardless of who created the local category.
func (s *Categories) ImportToOwner(ctx context.Context, categoryID, listID, userID string) (*models.Category, error) {
	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.AuthorID != userID {
		return nil, apperror.Forbidden("Only the list author can import categories")
	}

	local, err := s.localInList(ctx, categoryID, listID)
	if err != nil {
		return nil, err
	}

	return s.copyToPersonal(ctx, local, userID)
}

// ValidateForList reports whether a category reference may be assigned
// to items of the given list. Personal categories qualify only when
// they belong to the list's author; a collaborator's own personal
// categories are deliberately not assignable.
func (s *Categories) ValidateForList(ctx context.Context, ref models.CategoryRef, listID string) (bool, error) {
	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	category, err := s.store.CategoryByID(ctx, ref.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	switch ref.Type {
	case models.CategoryTypeUser:
		return category.ListID == nil && category.UserID == list.AuthorID, nil
	case models.CategoryTypeLocal:
		return category.ListID != nil && *category.ListID == listID, nil
	default:
		return false, nil
	}
}

func (s *Categories) copyToPersonal(ctx context.Context, local *models.Category, userID string) (*models.Category, error) {
	exists, err := s.store.PersonalCategoryExists(ctx, userID, local.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("You already have a category named: " + local.Name)
	}

	category := &models.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   local.Name,
		Icon:   local.Icon,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Categories) personalOwnedBy(ctx context.Context, categoryID, userID string) (*models.Category, error) {
	category, err := s.store.CategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID || category.ListID != nil {
		return nil, apperror.NotFound("Category not found")
	}
	return category, nil
}

func (s *Categories) localInList(ctx context.Context, categoryID, listID string) (*models.Category, error) {
	category, err := s.store.CategoryByID(ctx, categoryID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NotFound("Local category not found")
		}
		return nil, err
	}
	if category.ListID == nil || *category.ListID != listID {
		return nil, apperror.NotFound("Local category not found")
	}
	return category, nil
}
