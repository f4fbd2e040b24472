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

type SharingHandler struct {
	shares    *service.Shares
	validator *validator.Validate
	logger    *zap.SugaredLogger
}

func NewSharingHandler(shares *service.Shares, logger *zap.SugaredLogger) *SharingHandler {
	return &SharingHandler{
		shares:    shares,
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *SharingHandler) Share(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.ShareListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	share, err := h.shares.Share(c.Request.Context(), c.Param("id"), userID, req.Login)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, share)
}

func (h *SharingHandler) Remove(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	err := h.shares.Remove(c.Request.Context(), c.Param("id"), userID, c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share removed"})
}

func (h *SharingHandler) GetShares(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	resp, err := h.shares.GetShares(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
