package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/models"
)

// Memory is an in-memory Store with the same error semantics as the
// Postgres implementation. It backs the service and handler tests.
type Memory struct {
	mu sync.Mutex

	users            map[string]models.User
	lists            map[string]models.List
	categories       map[string]models.Category
	items            map[string]models.ListItem
	shares           map[string]models.ListShare
	refreshTokens    map[string]models.RefreshToken
	systemCategories []models.SystemCategory
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]models.User),
		lists:         make(map[string]models.List),
		categories:    make(map[string]models.Category),
		items:         make(map[string]models.ListItem),
		shares:        make(map[string]models.ListShare),
		refreshTokens: make(map[string]models.RefreshToken),
	}
}

// SeedSystemCategories fills the system dictionary copied to new users.
func (m *Memory) SeedSystemCategories(categories []models.SystemCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systemCategories = append([]models.SystemCategory(nil), categories...)
}

// Users

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Login == user.Login {
			return apperror.Conflict("A user with this login already exists")
		}
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) UserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return &user, nil
}

func (m *Memory) UserByLogin(_ context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Login == login {
			u := user
			return &u, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

// System categories

func (m *Memory) CopySystemCategoriesToUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sys := range m.systemCategories {
		category := models.Category{
			ID:        newID(),
			UserID:    userID,
			Name:      sys.Name,
			Icon:      sys.Icon,
			CreatedAt: time.Now(),
		}
		m.categories[category.ID] = category
	}
	return nil
}

// Refresh tokens

func (m *Memory) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token.CreatedAt = time.Now()
	m.refreshTokens[token.Token] = *token
	return nil
}

func (m *Memory) RotateRefreshToken(_ context.Context, oldToken string, newToken *models.RefreshToken) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.refreshTokens[oldToken]
	if !ok || existing.ExpiresAt.Before(time.Now()) {
		return "", apperror.NotFound("Refresh token not found")
	}
	delete(m.refreshTokens, oldToken)

	newToken.UserID = existing.UserID
	newToken.CreatedAt = time.Now()
	m.refreshTokens[newToken.Token] = *newToken
	return existing.UserID, nil
}

func (m *Memory) DeleteRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refreshTokens, token)
	return nil
}

// Lists

func (m *Memory) CreateList(_ context.Context, list *models.List) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list.CreatedAt = time.Now()
	m.lists[list.ID] = *list
	return nil
}

func (m *Memory) ListByID(_ context.Context, id string) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.lists[id]
	if !ok {
		return nil, apperror.NotFound("List not found")
	}
	return &list, nil
}

func (m *Memory) ListsOwnedBy(_ context.Context, userID string) ([]models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lists := make([]models.List, 0)
	for _, list := range m.lists {
		if list.AuthorID == userID {
			lists = append(lists, list)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].CreatedAt.Before(lists[j].CreatedAt) })
	return lists, nil
}

func (m *Memory) ListsSharedWith(_ context.Context, userID string) ([]SharedList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shared := make([]SharedList, 0)
	for _, share := range m.shares {
		if share.UserID != userID {
			continue
		}
		if list, ok := m.lists[share.ListID]; ok {
			shared = append(shared, SharedList{List: list, Role: share.Role})
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		return shared[i].List.CreatedAt.Before(shared[j].List.CreatedAt)
	})
	return shared, nil
}

func (m *Memory) UpdateListName(_ context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.lists[id]
	if !ok {
		return apperror.NotFound("List not found")
	}
	list.Name = name
	m.lists[id] = list
	return nil
}

func (m *Memory) DeleteList(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lists[id]; !ok {
		return apperror.NotFound("List not found")
	}
	delete(m.lists, id)
	for itemID, item := range m.items {
		if item.ListID == id {
			delete(m.items, itemID)
		}
	}
	for shareID, share := range m.shares {
		if share.ListID == id {
			delete(m.shares, shareID)
		}
	}
	for categoryID, category := range m.categories {
		if category.ListID != nil && *category.ListID == id {
			delete(m.categories, categoryID)
		}
	}
	return nil
}

func (m *Memory) ListCounts(_ context.Context, listID string) (ListCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var counts ListCounts
	for _, item := range m.items {
		if item.ListID == listID {
			counts.Items++
			if item.IsCompleted {
				counts.Completed++
			}
		}
	}
	for _, share := range m.shares {
		if share.ListID == listID {
			counts.Shares++
		}
	}
	return counts, nil
}

// Shares

func (m *Memory) ShareFor(_ context.Context, listID, userID string) (*models.ListShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, share := range m.shares {
		if share.ListID == listID && share.UserID == userID {
			s := share
			return &s, nil
		}
	}
	return nil, apperror.NotFound("Share not found")
}

func (m *Memory) SharesByList(_ context.Context, listID string) ([]models.ShareInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shares := make([]models.ShareInfo, 0)
	for _, share := range m.shares {
		if share.ListID != listID {
			continue
		}
		user := m.users[share.UserID]
		shares = append(shares, models.ShareInfo{
			ID:        share.ID,
			UserID:    user.ID,
			UserName:  user.Name,
			UserLogin: user.Login,
			Role:      share.Role,
			CreatedAt: share.CreatedAt,
		})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].CreatedAt.Before(shares[j].CreatedAt) })
	return shares, nil
}

func (m *Memory) CountShares(_ context.Context, listID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, share := range m.shares {
		if share.ListID == listID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CreateShare(_ context.Context, share *models.ListShare) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.shares {
		if existing.ListID == share.ListID && existing.UserID == share.UserID {
			return apperror.Conflict("List is already shared with this user")
		}
	}
	share.CreatedAt = time.Now()
	m.shares[share.ID] = *share
	return nil
}

func (m *Memory) DeleteShare(_ context.Context, listID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, share := range m.shares {
		if share.ListID == listID && share.UserID == userID {
			delete(m.shares, id)
			return nil
		}
	}
	return apperror.NotFound("Share not found")
}

// Categories

func (m *Memory) CategoryByID(_ context.Context, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, apperror.NotFound("Category not found")
	}
	return &category, nil
}

func (m *Memory) PersonalCategories(_ context.Context, userID string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make([]models.Category, 0)
	for _, category := range m.categories {
		if category.UserID == userID && category.ListID == nil {
			categories = append(categories, category)
		}
	}
	sortCategories(categories)
	return categories, nil
}

func (m *Memory) CategoriesForList(_ context.Context, ownerID, listID string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make([]models.Category, 0)
	for _, category := range m.categories {
		personal := category.UserID == ownerID && category.ListID == nil
		local := category.ListID != nil && *category.ListID == listID
		if personal || local {
			categories = append(categories, category)
		}
	}
	sortCategories(categories)
	return categories, nil
}

func (m *Memory) PersonalCategoryExists(_ context.Context, userID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.personalCategoryExists(userID, name), nil
}

func (m *Memory) LocalCategoryExists(_ context.Context, listID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.localCategoryExists(listID, name), nil
}

func (m *Memory) personalCategoryExists(userID, name string) bool {
	for _, category := range m.categories {
		if category.UserID == userID && category.ListID == nil && category.Name == name {
			return true
		}
	}
	return false
}

func (m *Memory) localCategoryExists(listID, name string) bool {
	for _, category := range m.categories {
		if category.ListID != nil && *category.ListID == listID && category.Name == name {
			return true
		}
	}
	return false
}

func (m *Memory) CreateCategory(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if category.ListID == nil {
		if m.personalCategoryExists(category.UserID, category.Name) {
			return apperror.Conflict("A category with this name already exists")
		}
	} else if m.localCategoryExists(*category.ListID, category.Name) {
		return apperror.Conflict("A local category with this name already exists in this list")
	}

	category.CreatedAt = time.Now()
	m.categories[category.ID] = *category
	return nil
}

func (m *Memory) UpdateCategory(_ context.Context, id, name, icon string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	category, ok := m.categories[id]
	if !ok {
		return apperror.NotFound("Category not found")
	}
	if category.Name != name {
		if category.ListID == nil && m.personalCategoryExists(category.UserID, name) {
			return apperror.Conflict("A category with this name already exists")
		}
		if category.ListID != nil && m.localCategoryExists(*category.ListID, name) {
			return apperror.Conflict("A local category with this name already exists in this list")
		}
	}
	category.Name = name
	category.Icon = icon
	m.categories[id] = category
	return nil
}

func (m *Memory) DeleteCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return apperror.NotFound("Category not found")
	}
	delete(m.categories, id)
	for itemID, item := range m.items {
		if item.Category != nil && item.Category.ID == id {
			item.Category = nil
			m.items[itemID] = item
		}
	}
	return nil
}

// Items

func (m *Memory) ItemsByList(_ context.Context, listID string) ([]models.ItemDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]models.ItemDetail, 0)
	for _, item := range m.items {
		if item.ListID == listID {
			items = append(items, m.itemDetail(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

func (m *Memory) ItemByID(_ context.Context, id string) (*models.ListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, apperror.NotFound("List item not found")
	}
	if item.Category != nil {
		ref := *item.Category
		item.Category = &ref
	}
	return &item, nil
}

func (m *Memory) ItemDetailByID(_ context.Context, id string) (*models.ItemDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, apperror.NotFound("List item not found")
	}
	detail := m.itemDetail(item)
	return &detail, nil
}

func (m *Memory) itemDetail(item models.ListItem) models.ItemDetail {
	detail := models.ItemDetail{
		ID:          item.ID,
		ListID:      item.ListID,
		Title:       item.Title,
		Description: item.Description,
		IsCompleted: item.IsCompleted,
		Position:    item.Position,
		CreatedAt:   item.CreatedAt,
	}
	if item.Category != nil {
		id := item.Category.ID
		categoryType := item.Category.Type
		detail.CategoryID = &id
		detail.CategoryType = &categoryType
		if category, ok := m.categories[id]; ok {
			detail.CategoryName = &category.Name
			detail.CategoryIcon = &category.Icon
		}
	}
	return detail
}

func (m *Memory) CreateItem(_ context.Context, item *models.ListItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	position := 0
	for _, existing := range m.items {
		if existing.ListID == item.ListID && existing.Position+1 > position {
			position = existing.Position + 1
		}
	}
	item.Position = position
	item.CreatedAt = time.Now()
	m.items[item.ID] = *item
	return nil
}

func (m *Memory) UpdateItem(_ context.Context, item *models.ListItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[item.ID]
	if !ok {
		return apperror.NotFound("List item not found")
	}
	item.Position = existing.Position
	item.CreatedAt = existing.CreatedAt
	m.items[item.ID] = *item
	return nil
}

func (m *Memory) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return apperror.NotFound("List item not found")
	}
	delete(m.items, id)
	return nil
}

func (m *Memory) ItemIDsInList(_ context.Context, listID string, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := make([]string, 0, len(ids))
	for _, id := range ids {
		if item, ok := m.items[id]; ok && item.ListID == listID {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *Memory) UpdateItemPositions(_ context.Context, orderedIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for index, id := range orderedIDs {
		if item, ok := m.items[id]; ok {
			item.Position = index
			m.items[id] = item
		}
	}
	return nil
}

func newID() string {
	return uuid.New().String()
}

func sortCategories(categories []models.Category) {
	sort.Slice(categories, func(i, j int) bool {
		return strings.Compare(categories[i].Name, categories[j].Name) < 0
	})
}
