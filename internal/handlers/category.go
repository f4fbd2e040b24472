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

type CategoryHandler struct {
	categories *service.Categories
	validator  *validator.Validate
	logger     *zap.SugaredLogger
}

func NewCategoryHandler(categories *service.Categories, logger *zap.SugaredLogger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		validator:  validator.New(),
		logger:     logger,
	}
}

// ListPersonal returns the caller's personal category palette.
func (h *CategoryHandler) ListPersonal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	categories, err := h.categories.ListPersonal(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreatePersonal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	category, err := h.categories.CreatePersonal(c.Request.Context(), userID, req.Name, req.Icon)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdatePersonal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	category, err := h.categories.UpdatePersonal(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeletePersonal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	if err := h.categories.DeletePersonal(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ListForList returns the categories usable on a list: the owner's
// personal palette plus the list's local categories.
func (h *CategoryHandler) ListForList(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	categories, err := h.categories.ListForList(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateForList creates a category in the context of a list. The owner
// gets a personal category; editors get a list-local one.
func (h *CategoryHandler) CreateForList(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	category, err := h.categories.CreateForList(c.Request.Context(), c.Param("id"), userID, req.Name, req.Icon)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) DeleteLocal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	err := h.categories.DeleteLocal(c.Request.Context(), c.Param("categoryId"), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// SaveToUser copies a local category into the caller's personal
// palette, leaving the local category in place.
func (h *CategoryHandler) SaveToUser(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	category, err := h.categories.SaveToUser(c.Request.Context(), c.Param("categoryId"), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ImportToOwner copies a local category into the list author's personal
// palette. Author only.
func (h *CategoryHandler) ImportToOwner(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	category, err := h.categories.ImportToOwner(c.Request.Context(), c.Param("categoryId"), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}
