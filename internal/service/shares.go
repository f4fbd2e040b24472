package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

// MaxShares caps how many users a single list can be shared with.
const MaxShares = 50

type Shares struct {
	store  store.Store
	logger *zap.SugaredLogger
}

func NewShares(st store.Store, logger *zap.SugaredLogger) *Shares {
	return &Shares{store: st, logger: logger}
}

// Share grants editor access to the user identified by login. Owner
// only; the target must exist, must not be the owner, must not already
// hold a share, and the share ceiling must not be reached.
func (s *Shares) Share(ctx context.Context, listID, ownerID, login string) (*models.ShareInfo, error) {
	if err := s.requireOwnership(ctx, listID, ownerID); err != nil {
		return nil, err
	}

	target, err := s.store.UserByLogin(ctx, login)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NotFound("User with this login not found")
		}
		return nil, err
	}

	if target.ID == ownerID {
		return nil, apperror.Conflict("You cannot share a list with yourself")
	}

	if _, err := s.store.ShareFor(ctx, listID, target.ID); err == nil {
		return nil, apperror.Conflict("List is already shared with this user")
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	count, err := s.store.CountShares(ctx, listID)
	if err != nil {
		return nil, err
	}
	if count >= MaxShares {
		return nil, apperror.Conflict(fmt.Sprintf("A list can be shared with at most %d users", MaxShares))
	}

	share := &models.ListShare{
		ID:     uuid.New().String(),
		ListID: listID,
		UserID: target.ID,
		Role:   models.RoleEditor,
	}
	if err := s.store.CreateShare(ctx, share); err != nil {
		return nil, err
	}

	return &models.ShareInfo{
		ID:        share.ID,
		UserID:    target.ID,
		UserName:  target.Name,
		UserLogin: target.Login,
		Role:      share.Role,
		CreatedAt: share.CreatedAt,
	}, nil
}

func (s *Shares) Remove(ctx context.Context, listID, ownerID, targetUserID string) error {
	if err := s.requireOwnership(ctx, listID, ownerID); err != nil {
		return err
	}

	if targetUserID == ownerID {
		return apperror.Conflict("You cannot remove the owner from the list")
	}

	return s.store.DeleteShare(ctx, listID, targetUserID)
}

// GetShares returns the list's shares and the author's public identity.
// Visible to the owner and to every editor; Forbidden otherwise.
func (s *Shares) GetShares(ctx context.Context, listID, callerID string) (*models.ListSharesResponse, error) {
	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	if list.AuthorID != callerID {
		if _, err := s.store.ShareFor(ctx, listID, callerID); err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.Forbidden("You do not have access to this list")
			}
			return nil, err
		}
	}

	author, err := s.store.UserByID(ctx, list.AuthorID)
	if err != nil {
		return nil, err
	}

	shares, err := s.store.SharesByList(ctx, listID)
	if err != nil {
		return nil, err
	}

	return &models.ListSharesResponse{
		Shares: shares,
		Author: models.PublicUser{ID: author.ID, Name: author.Name, Login: author.Login},
	}, nil
}

func (s *Shares) requireOwnership(ctx context.Context, listID, userID string) error {
	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return err
	}
	if list.AuthorID != userID {
		return apperror.Forbidden("Only the owner can manage shares for this list")
	}
	return nil
}
