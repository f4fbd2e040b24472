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

type ListHandler struct {
	lists     *service.Lists
	validator *validator.Validate
	logger    *zap.SugaredLogger
}

func NewListHandler(lists *service.Lists, logger *zap.SugaredLogger) *ListHandler {
	return &ListHandler{
		lists:     lists,
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *ListHandler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	summary, err := h.lists.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *ListHandler) GetAll(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	summaries, err := h.lists.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *ListHandler) Get(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	summary, err := h.lists.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ListHandler) Update(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req models.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	summary, err := h.lists.Update(c.Request.Context(), c.Param("id"), userID, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ListHandler) Delete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	if err := h.lists.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List deleted"})
}
