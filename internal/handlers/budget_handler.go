package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpsertBudgetRequest represents the payload for setting a monthly limit.
type UpsertBudgetRequest struct {
	CategoryID string          `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// UpsertBudget sets or replaces the monthly limit for a category.
// @Summary     Set a budget
// @Description Create or replace the monthly limit for a category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertBudgetRequest true "Budget limit"
// @Success     200 {object} map[string]string "Budget saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budgets [post]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.budgetService.Upsert(userID, req.CategoryID, req.Amount); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "budget saved"})
}

// GetBudgets lists the caller's visible budgets.
// @Summary     List budgets
// @Description List the caller's budgets plus any shared with their family
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.BudgetView "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": h.budgetService.Budgets(userID)})
}

// GetBudgetProgress reports current-month consumption per budget.
// @Summary     Budget progress
// @Description Current calendar month spending against each visible budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.BudgetProgress "Progress"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": h.budgetService.Progress(userID)})
}
