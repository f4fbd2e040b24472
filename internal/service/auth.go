package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/auth"
	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

type Auth struct {
	store      store.Store
	jwtManager *auth.JWTManager
	refreshTTL time.Duration
	logger     *zap.SugaredLogger
}

func NewAuth(st store.Store, jwtManager *auth.JWTManager, refreshTTL time.Duration, logger *zap.SugaredLogger) *Auth {
	return &Auth{
		store:      st,
		jwtManager: jwtManager,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Register creates a user, copies the system category dictionary into
// their personal scope, and issues a token pair.
func (s *Auth) Register(ctx context.Context, name, login, password string) (*models.AuthResponse, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Login:        login,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.store.CopySystemCategoriesToUser(ctx, user.ID); err != nil {
		// The account exists; missing seed categories are recoverable.
		s.logger.Errorw("failed to copy system categories", "userId", user.ID, "error", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *Auth) Login(ctx context.Context, login, password string) (*models.AuthResponse, error) {
	user, err := s.store.UserByLogin(ctx, login)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Unauthorized("Invalid login or password")
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperror.Unauthorized("Invalid login or password")
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token: the old token is deleted and a new
// one issued in a single transaction, so every refresh token is
// single-use.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	newToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}

	userID, err := s.store.RotateRefreshToken(ctx, refreshToken, newToken)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: newToken.Token,
	}, nil
}

func (s *Auth) Logout(ctx context.Context, refreshToken string) error {
	return s.store.DeleteRefreshToken(ctx, refreshToken)
}

func (s *Auth) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.UserByID(ctx, userID)
}

func (s *Auth) issueTokens(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.store.CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}
