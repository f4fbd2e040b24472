package service

import (
	"context"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

// Access resolves what a user may do with a list. Every list-scoped
// operation goes through ResolveListAccess before touching anything
// else.
type Access struct {
	store store.Store
}

func NewAccess(st store.Store) *Access {
	return &Access{store: st}
}

// ResolveListAccess returns the caller's role on a list. A missing list
// and a list the caller has no role on both surface as NotFound, so the
// response never reveals whether the list exists.
func (a *Access) ResolveListAccess(ctx context.Context, listID, userID string) (models.Role, error) {
	list, err := a.store.ListByID(ctx, listID)
	if err != nil {
		return "", err
	}

	if list.AuthorID == userID {
		return models.RoleOwner, nil
	}

	share, err := a.store.ShareFor(ctx, listID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", apperror.NotFound("List not found")
		}
		return "", err
	}

	return share.Role, nil
}

// requireEditAccess resolves access and rejects roles that cannot mutate
// list content.
func (a *Access) requireEditAccess(ctx context.Context, listID, userID string) (models.Role, error) {
	role, err := a.ResolveListAccess(ctx, listID, userID)
	if err != nil {
		return "", err
	}
	if !role.CanEdit() {
		return "", apperror.Forbidden("You do not have permission to modify this list")
	}
	return role, nil
}
