package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/auth"
	"github.com/mateuszmatysiak/collab-list/internal/models"
	"github.com/mateuszmatysiak/collab-list/internal/service"
)

type AuthHandler struct {
	auth      *service.Auth
	validator *validator.Validate
	logger    *zap.SugaredLogger
}

func NewAuthHandler(authService *service.Auth, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		auth:      authService,
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), req.Name, req.Login, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
