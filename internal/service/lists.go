package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

type Lists struct {
	store  store.Store
	access *Access
	logger *zap.SugaredLogger
}

func NewLists(st store.Store, access *Access, logger *zap.SugaredLogger) *Lists {
	return &Lists{store: st, access: access, logger: logger}
}

func (s *Lists) Create(ctx context.Context, userID, name string) (*models.ListSummary, error) {
	list := &models.List{
		ID:       uuid.New().String(),
		Name:     name,
		AuthorID: userID,
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, err
	}

	return &models.ListSummary{List: *list, Role: models.RoleOwner}, nil
}

func (s *Lists) Get(ctx context.Context, listID, userID string) (*models.ListSummary, error) {
	role, err := s.access.ResolveListAccess(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, list, role)
}

// GetForUser returns the union of lists the user owns and lists shared
// with them, each tagged with the caller's role.
func (s *Lists) GetForUser(ctx context.Context, userID string) ([]models.ListSummary, error) {
	owned, err := s.store.ListsOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	shared, err := s.store.ListsSharedWith(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ListSummary, 0, len(owned)+len(shared))
	for i := range owned {
		summary, err := s.summarize(ctx, &owned[i], models.RoleOwner)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	for i := range shared {
		summary, err := s.summarize(ctx, &shared[i].List, shared[i].Role)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *Lists) Update(ctx context.Context, listID, userID, name string) (*models.ListSummary, error) {
	role, err := s.access.requireEditAccess(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateListName(ctx, listID, name); err != nil {
		return nil, err
	}

	list, err := s.store.ListByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, list, role)
}

// Delete removes a list with everything scoped to it. Owner only:
// editors get Forbidden, strangers get NotFound from access resolution.
func (s *Lists) Delete(ctx context.Context, listID, userID string) error {
	role, err := s.access.ResolveListAccess(ctx, listID, userID)
	if err != nil {
		return err
	}
	if role != models.RoleOwner {
		return apperror.Forbidden("Only the owner can delete this list")
	}

	return s.store.DeleteList(ctx, listID)
}

func (s *Lists) summarize(ctx context.Context, list *models.List, role models.Role) (*models.ListSummary, error) {
	counts, err := s.store.ListCounts(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	return &models.ListSummary{
		List:           *list,
		ItemsCount:     counts.Items,
		CompletedCount: counts.Completed,
		SharesCount:    counts.Shares,
		Role:           role,
	}, nil
}
