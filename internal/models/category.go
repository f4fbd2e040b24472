package models

import "time"

// CategoryType discriminates the two category scopes an item can
// reference. Ids are not globally unique across scopes, so the type must
// always travel with the id.
type CategoryType string

const (
	// CategoryTypeUser is a personal category from the list owner's
	// dictionary.
	CategoryTypeUser CategoryType = "user"
	// CategoryTypeLocal is a category scoped to a single list, created
	// by a collaborator.
	CategoryTypeLocal CategoryType = "local"
)

func (t CategoryType) Valid() bool {
	return t == CategoryTypeUser || t == CategoryTypeLocal
}

// CategoryRef is a tagged reference to a category. Carrying id and type
// as one value keeps the "never set one without the other" invariant out
// of reach of callers.
type CategoryRef struct {
	ID   string       `json:"categoryId"`
	Type CategoryType `json:"categoryType"`
}

// SystemCategory is a global seed category copied into a user's personal
// scope at registration.
type SystemCategory struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Category is a row in the user_categories table. ListID nil means
// personal scope, non-nil means local scope tied to that list.
type Category struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	ListID    *string   `json:"listId,omitempty" db:"list_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Scope returns the category type implied by ListID.
func (c *Category) Scope() CategoryType {
	if c.ListID != nil {
		return CategoryTypeLocal
	}
	return CategoryTypeUser
}

// ListCategory is a category as seen from within a list: tagged with its
// scope and whether the caller created it.
type ListCategory struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Icon    string       `json:"icon"`
	Type    CategoryType `json:"type"`
	IsOwner bool         `json:"isOwner"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Icon string `json:"icon" validate:"required,min=1,max=100"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Icon *string `json:"icon,omitempty" validate:"omitempty,min=1,max=100"`
}
