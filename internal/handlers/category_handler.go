package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
	"chitieu/internal/services"
)

// CategoryHandler handles the admin-only system category surface.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the payload for creating or updating a system
// category.
type CategoryRequest struct {
	Name string                 `json:"name" binding:"required,min=1,max=100"`
	Type models.TransactionType `json:"type" binding:"required,transaction_type"`
}

// ListSystemCategories lists all system default categories.
// @Summary     List system categories
// @Description List the system default categories (admin only)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Category "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /admin/categories [get]
func (h *CategoryHandler) ListSystemCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.categoryService.SystemCategories()})
}

// CreateSystemCategory creates a system default category.
// @Summary     Create a system category
// @Description Create a system default category (admin only)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /admin/categories [post]
func (h *CategoryHandler) CreateSystemCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateSystem(req.Name, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateSystemCategory renames or retypes a system default category.
// @Summary     Update a system category
// @Description Update a system default category (admin only)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Category ID"
// @Param       request body CategoryRequest true "New category values"
// @Success     200 {object} models.Category "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /admin/categories/{id} [put]
func (h *CategoryHandler) UpdateSystemCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateSystem(c.Param("id"), req.Name, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteSystemCategory removes an unused system default category.
// @Summary     Delete a system category
// @Description Delete a system default category with no transactions (admin only)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} map[string]string "Category deleted"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category still referenced by transactions"
// @Router      /admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteSystemCategory(c *gin.Context) {
	if err := h.categoryService.DeleteSystem(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
