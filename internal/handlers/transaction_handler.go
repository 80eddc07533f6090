package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
	"chitieu/internal/pagination"
	"chitieu/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the payload for creating or updating a
// transaction. Amount arrives as a JSON number and is bound exactly.
type TransactionRequest struct {
	CategoryID  string                 `json:"category_id" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Description string                 `json:"description" binding:"max=500"`
	Date        time.Time              `json:"date"`
}

// ListTransactions handles listing transactions with filters.
// @Summary     List transactions
// @Description List transactions visible to the caller, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       scope       query string false "personal or family"
// @Param       member_id   query string false "Restrict family scope to one member"
// @Param       category_id query string false "Filter by category"
// @Param       from        query string false "Start date (YYYY-MM-DD)"
// @Param       to          query string false "End date, inclusive (YYYY-MM-DD)"
// @Param       limit       query int    false "Page size (default 20, max 100)"
// @Param       offset      query int    false "Rows to skip"
// @Success     200 {object} map[string][]services.TransactionView "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.ListRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := h.buildFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions := h.transactionService.List(userID, page, filter)
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// CreateTransaction handles recording a new transaction.
// @Summary     Create a transaction
// @Description Record a new income or expense transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.Create(
		userID, req.CategoryID, req.Type, req.Amount, req.Description, req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// UpdateTransaction handles modifying an owned transaction.
// @Summary     Update a transaction
// @Description Update a transaction owned by the caller
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "New transaction values"
// @Success     200 {object} models.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found or unauthorized"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.Update(
		userID, c.Param("id"), req.CategoryID, req.Type, req.Amount, req.Description, req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles removing an owned transaction.
// @Summary     Delete a transaction
// @Description Delete a transaction owned by the caller
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found or unauthorized"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.Delete(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// ExportTransactions streams the filtered transaction list as an Excel file.
// @Summary     Export transactions
// @Description Download the filtered transaction list as an .xlsx file
// @Tags        transactions
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       scope       query string false "personal or family"
// @Param       category_id query string false "Filter by category"
// @Param       from        query string false "Start date (YYYY-MM-DD)"
// @Param       to          query string false "End date, inclusive (YYYY-MM-DD)"
// @Success     200 {file} file "Excel workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := h.buildFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Export takes the whole filtered window, not a page of it.
	transactions := h.transactionService.ListAll(userID, filter)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	headers := []string{"Date", "Type", "Category", "Amount", "Description", "Member"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	f.SetCellStyle(sheet, "A1", "F1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "C", "E", 24)

	for row, t := range transactions {
		values := []interface{}{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Category.Name,
			t.Amount,
			t.Description,
			t.User.Name,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
	}
}

// GetCategories lists the categories the caller can record against.
// @Summary     List visible categories
// @Description System default categories plus the caller's family categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Category "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *TransactionHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": h.transactionService.VisibleCategories(userID)})
}

func (h *TransactionHandler) buildFilter(c *gin.Context) (services.TransactionFilter, error) {
	from, to, err := parseDateRange(c)
	if err != nil {
		return services.TransactionFilter{}, err
	}
	return services.TransactionFilter{
		From:       from,
		To:         to,
		CategoryID: c.Query("category_id"),
		Scope:      parseScope(c),
		MemberID:   c.Query("member_id"),
	}, nil
}
