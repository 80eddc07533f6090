package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
	"chitieu/internal/models"
	"chitieu/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db    *gorm.DB
	scope ScopeResolver
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, scope ScopeResolver) TransactionServicer {
	return &transactionService{db: db, scope: scope}
}

// List returns a filtered page of transactions, newest effective date first,
// each row carrying its category and a minimal owner projection. Soft-deleted
// rows are excluded by GORM. Internal failures degrade to an empty list.
func (s *transactionService) List(userID string, page pagination.ListRequest, filter TransactionFilter) []TransactionView {
	page.Defaults()

	q, ok := s.filteredQuery(userID, filter)
	if !ok {
		return []TransactionView{}
	}

	var transactions []models.Transaction
	if err := q.Preload("Category").Preload("User").
		Order("date DESC").
		Scopes(pagination.Scope(page)).
		Find(&transactions).Error; err != nil {
		logger.Get().Errorw("failed to list transactions", "error", err)
		return []TransactionView{}
	}
	return toViews(transactions)
}

// ListAll returns every transaction in the filtered window, newest effective
// date first, with no page cap. Exports use this so large windows are not
// cut off at a page boundary.
func (s *transactionService) ListAll(userID string, filter TransactionFilter) []TransactionView {
	q, ok := s.filteredQuery(userID, filter)
	if !ok {
		return []TransactionView{}
	}

	var transactions []models.Transaction
	if err := q.Preload("Category").Preload("User").
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		logger.Get().Errorw("failed to list transactions for export", "error", err)
		return []TransactionView{}
	}
	return toViews(transactions)
}

// filteredQuery resolves the scope and applies the shared listing filters.
// A false second return means the caller should produce an empty result.
func (s *transactionService) filteredQuery(userID string, filter TransactionFilter) (*gorm.DB, bool) {
	userIDs, err := s.scope.Resolve(userID, filter.Scope, filter.MemberID)
	if err != nil {
		logger.Get().Errorw("failed to resolve scope for transaction list", "error", err)
		return nil, false
	}
	if len(userIDs) == 0 {
		return nil, false
	}

	q := s.db.Model(&models.Transaction{}).Where("user_id IN ?", userIDs)
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if filter.CategoryID != "" && filter.CategoryID != "all" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	return q, true
}

func toViews(transactions []models.Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, TransactionView{
			ID:          t.ID,
			Amount:      t.Amount.InexactFloat64(),
			Description: t.Description,
			Type:        t.Type,
			Date:        t.Date,
			CreatedAt:   t.CreatedAt,
			Category:    t.Category,
			User: OwnerView{
				ID:    t.User.ID,
				Name:  t.User.Name,
				Image: t.User.Image,
			},
		})
	}
	return views
}

// Create records a new transaction owned by the caller. The date comes from
// the caller so records can be back-dated; it defaults to now when zero.
func (s *transactionService) Create(
	userID, categoryID string,
	transactionType models.TransactionType,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if categoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	if err := s.checkCategory(categoryID); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// Update modifies a transaction after verifying the caller owns it. A missing
// row and a row owned by someone else produce the same denial, so callers
// cannot probe for existence.
func (s *transactionService) Update(
	userID, transactionID, categoryID string,
	transactionType models.TransactionType,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	transaction, err := s.getOwned(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := s.checkCategory(categoryID); err != nil {
		return nil, err
	}

	// A zero date means the caller did not send one; keep the stored date.
	if date.IsZero() {
		date = transaction.Date
	}

	updates := map[string]interface{}{
		"amount":      amount,
		"description": description,
		"type":        transactionType,
		"category_id": categoryID,
		"date":        date,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// Delete soft-deletes a transaction owned by the caller.
func (s *transactionService) Delete(userID, transactionID string) error {
	transaction, err := s.getOwned(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// VisibleCategories returns the system defaults unioned with the categories
// owned by the caller's family, name ascending. Degrades to an empty list.
func (s *transactionService) VisibleCategories(userID string) []models.Category {
	var user models.User
	if err := s.db.Select("id", "family_id").First(&user, "id = ?", userID).Error; err != nil {
		logger.Get().Errorw("failed to load user for category listing", "error", err)
		return []models.Category{}
	}

	q := s.db.Model(&models.Category{})
	if user.FamilyID != nil {
		q = q.Where("is_default = ? OR family_id = ?", true, *user.FamilyID)
	} else {
		q = q.Where("is_default = ?", true)
	}

	var categories []models.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Get().Errorw("failed to list categories", "error", err)
		return []models.Category{}
	}
	return categories
}

// getOwned fetches a transaction and verifies ownership. Both "missing" and
// "not yours" map to the same ErrTransactionNotFound.
func (s *transactionService) getOwned(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transaction.UserID != userID {
		return nil, apperrors.ErrTransactionNotFound
	}
	return &transaction, nil
}

func (s *transactionService) checkCategory(categoryID string) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
