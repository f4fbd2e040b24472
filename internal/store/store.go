package store

import (
	"context"

	"github.com/mateuszmatysiak/collab-list/internal/models"
)

// SharedList is a list reachable through a share, carrying the role the
// share grants.
type SharedList struct {
	List models.List
	Role models.Role
}

// ListCounts holds the per-list counters shown on list summaries.
type ListCounts struct {
	Items     int
	Completed int
	Shares    int
}

// Store is the persistence boundary for all services. Implementations
// return apperror values for missing rows (NotFound) and unique-index
// violations (Conflict) so services can propagate them unchanged.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByLogin(ctx context.Context, login string) (*models.User, error)

	// System categories
	CopySystemCategoriesToUser(ctx context.Context, userID string) error

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RotateRefreshToken atomically invalidates oldToken and stores
	// newToken for the same user, returning that user's id. A missing or
	// expired old token yields NotFound.
	RotateRefreshToken(ctx context.Context, oldToken string, newToken *models.RefreshToken) (string, error)
	DeleteRefreshToken(ctx context.Context, token string) error

	// Lists
	CreateList(ctx context.Context, list *models.List) error
	ListByID(ctx context.Context, id string) (*models.List, error)
	ListsOwnedBy(ctx context.Context, userID string) ([]models.List, error)
	ListsSharedWith(ctx context.Context, userID string) ([]SharedList, error)
	UpdateListName(ctx context.Context, id, name string) error
	DeleteList(ctx context.Context, id string) error
	ListCounts(ctx context.Context, listID string) (ListCounts, error)

	// Shares
	ShareFor(ctx context.Context, listID, userID string) (*models.ListShare, error)
	SharesByList(ctx context.Context, listID string) ([]models.ShareInfo, error)
	CountShares(ctx context.Context, listID string) (int, error)
	CreateShare(ctx context.Context, share *models.ListShare) error
	DeleteShare(ctx context.Context, listID, userID string) error

	// Categories
	CategoryByID(ctx context.Context, id string) (*models.Category, error)
	PersonalCategories(ctx context.Context, userID string) ([]models.Category, error)
	CategoriesForList(ctx context.Context, ownerID, listID string) ([]models.Category, error)
	PersonalCategoryExists(ctx context.Context, userID, name string) (bool, error)
	LocalCategoryExists(ctx context.Context, listID, name string) (bool, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id, name, icon string) error
	DeleteCategory(ctx context.Context, id string) error

	// Items
	ItemsByList(ctx context.Context, listID string) ([]models.ItemDetail, error)
	ItemByID(ctx context.Context, id string) (*models.ListItem, error)
	ItemDetailByID(ctx context.Context, id string) (*models.ItemDetail, error)
	// CreateItem appends the item to its list: position becomes
	// max(position)+1, or 0 for an empty list. The assigned position is
	// written back to item.
	CreateItem(ctx context.Context, item *models.ListItem) error
	UpdateItem(ctx context.Context, item *models.ListItem) error
	DeleteItem(ctx context.Context, id string) error
	// ItemIDsInList filters ids down to those belonging to listID.
	ItemIDsInList(ctx context.Context, listID string, ids []string) ([]string, error)
	// UpdateItemPositions sets position = index for each id, as one
	// atomic batch.
	UpdateItemPositions(ctx context.Context, orderedIDs []string) error
}
