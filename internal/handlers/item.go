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

type ItemHandler struct {
	items     *service.Items
	validator *validator.Validate
	logger    *zap.SugaredLogger
}

func NewItemHandler(items *service.Items, logger *zap.SugaredLogger) *ItemHandler {
	return &ItemHandler{
		items:     items,
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *ItemHandler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	items, err := h.items.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	item, err := h.items.Create(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	item, err := h.items.Update(c.Request.Context(), c.Param("itemId"), c.Param("id"), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	err := h.items.Delete(c.Request.Context(), c.Param("itemId"), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func (h *ItemHandler) Reorder(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.ReorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	if err := h.items.Reorder(c.Request.Context(), c.Param("id"), userID, req.ItemIDs); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Items reordered"})
}
