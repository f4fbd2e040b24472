package models

import "time"

// Role is the access level a user holds on a list. The owner role is
// implicit from List.AuthorID and never stored as a share row.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
)

// CanEdit reports whether the role allows mutating list content.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

type List struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ListSummary is a list together with the caller's role and item/share
// counters, as returned by the list endpoints.
type ListSummary struct {
	List
	ItemsCount     int  `json:"itemsCount"`
	CompletedCount int  `json:"completedCount"`
	SharesCount    int  `json:"sharesCount"`
	Role           Role `json:"role"`
}

type ListShare struct {
	ID        string    `json:"id" db:"id"`
	ListID    string    `json:"listId" db:"list_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ShareInfo is a share joined with the target user's public identity.
type ShareInfo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserLogin string    `json:"userLogin"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser is the subset of a user exposed to other collaborators.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

type ListSharesResponse struct {
	Shares []ShareInfo `json:"shares"`
	Author PublicUser  `json:"author"`
}

type CreateListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=500"`
}

type UpdateListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=500"`
}

type ShareListRequest struct {
	Login string `json:"login" validate:"required"`
}
