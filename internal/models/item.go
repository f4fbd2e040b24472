package models

import "time"

type ListItem struct {
	ID          string       `json:"id" db:"id"`
	ListID      string       `json:"listId" db:"list_id"`
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description" db:"description"`
	IsCompleted bool         `json:"isCompleted" db:"is_completed"`
	Category    *CategoryRef `json:"category,omitempty"`
	Position    int          `json:"position" db:"position"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
}

// ItemDetail is an item joined with its category's display fields, the
// shape returned by the item endpoints.
type ItemDetail struct {
	ID           string        `json:"id"`
	ListID       string        `json:"listId"`
	Title        string        `json:"title"`
	Description  *string       `json:"description"`
	IsCompleted  bool          `json:"isCompleted"`
	CategoryID   *string       `json:"categoryId"`
	CategoryType *CategoryType `json:"categoryType"`
	CategoryName *string       `json:"categoryName"`
	CategoryIcon *string       `json:"categoryIcon"`
	Position     int           `json:"position"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type CreateItemRequest struct {
	Title        string        `json:"title" validate:"required,min=1,max=1000"`
	Description  *string       `json:"description" validate:"omitempty,max=2000"`
	CategoryID   *string       `json:"categoryId"`
	CategoryType *CategoryType `json:"categoryType" validate:"omitempty,oneof=user local"`
}

type UpdateItemRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitempty,min=1,max=1000"`
	Description  Optional[string] `json:"description" validate:"-"`
	IsCompleted  *bool            `json:"isCompleted,omitempty"`
	CategoryID   Optional[string] `json:"categoryId" validate:"-"`
	CategoryType *CategoryType    `json:"categoryType,omitempty" validate:"omitempty,oneof=user local"`
}

type ReorderItemsRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1,dive,required"`
}
