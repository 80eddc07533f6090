package services

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
	"chitieu/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, loc *time.Location) BudgetServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &budgetService{db: db, loc: loc}
}

// Upsert sets the monthly limit for (category, caller, caller's family) in a
// single conditional insert. The conflict target is the composite unique
// index on the natural tuple, so two concurrent calls cannot race into
// duplicate rows; the loser of the insert updates the amount instead.
func (s *budgetService) Upsert(userID, categoryID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}

	var user models.User
	if err := s.db.Select("id", "family_id").First(&user, "id = ?", userID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	familyID := ""
	if user.FamilyID != nil {
		familyID = *user.FamilyID
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		FamilyID:   familyID,
		Amount:     amount,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "category_id"}, {Name: "user_id"}, {Name: "family_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount":     amount,
			"updated_at": time.Now(),
		}),
	}).Create(budget).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Budgets returns the caller's own budgets plus any owned by the caller's
// family, each joined with its category. Degrades to an empty list.
func (s *budgetService) Budgets(userID string) []BudgetView {
	budgets, err := s.load(userID)
	if err != nil {
		logger.Get().Errorw("failed to list budgets", "error", err)
		return []BudgetView{}
	}

	views := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, BudgetView{
			ID:         b.ID,
			CategoryID: b.CategoryID,
			FamilyID:   b.FamilyID,
			Amount:     b.Amount.InexactFloat64(),
			Category:   b.Category,
		})
	}
	return views
}

// Progress computes current-calendar-month spending against each visible
// budget. Family budgets count every member's expenses; personal budgets
// count only the caller's. Sorted most-consumed first. Degrades to empty.
func (s *budgetService) Progress(userID string) []BudgetProgress {
	budgets, err := s.load(userID)
	if err != nil {
		logger.Get().Errorw("failed to load budgets for progress", "error", err)
		return []BudgetProgress{}
	}
	if len(budgets) == 0 {
		return []BudgetProgress{}
	}

	now := time.Now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	progress := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		userIDs := []string{userID}
		if b.FamilyID != "" {
			userIDs = nil
			if err := s.db.Model(&models.User{}).
				Where("family_id = ?", b.FamilyID).
				Pluck("id", &userIDs).Error; err != nil {
				logger.Get().Errorw("failed to resolve family members for budget", "error", err)
				continue
			}
		}

		var rows []models.Transaction
		err := s.db.Model(&models.Transaction{}).
			Select("amount").
			Where("category_id = ? AND type = ? AND user_id IN ? AND date >= ? AND date <= ?",
				b.CategoryID, models.TransactionTypeExpense, userIDs, monthStart, monthEnd).
			Find(&rows).Error
		if err != nil {
			logger.Get().Errorw("failed to sum budget spending", "error", err)
			continue
		}

		var spent decimal.Decimal
		for _, t := range rows {
			spent = spent.Add(t.Amount)
		}

		progress = append(progress, BudgetProgress{
			BudgetView: BudgetView{
				ID:         b.ID,
				CategoryID: b.CategoryID,
				FamilyID:   b.FamilyID,
				Amount:     b.Amount.InexactFloat64(),
				Category:   b.Category,
			},
			Spent:        spent.InexactFloat64(),
			Percentage:   percentageOf(spent, b.Amount),
			IsOverBudget: spent.GreaterThan(b.Amount),
		})
	}

	sort.SliceStable(progress, func(i, j int) bool { return progress[i].Percentage > progress[j].Percentage })
	return progress
}

func (s *budgetService) load(userID string) ([]models.Budget, error) {
	var user models.User
	if err := s.db.Select("id", "family_id").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	q := s.db.Model(&models.Budget{}).Preload("Category")
	if user.FamilyID != nil {
		q = q.Where("user_id = ? OR family_id = ?", userID, *user.FamilyID)
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var budgets []models.Budget
	if err := q.Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// percentageOf is round(min(spent/amount, 1) * 100), defined for every input:
// a zero limit reports 0 when nothing was spent and 100 once anything was.
func percentageOf(spent, amount decimal.Decimal) int {
	if !amount.IsPositive() {
		if spent.IsPositive() {
			return 100
		}
		return 0
	}
	ratio := spent.Div(amount).InexactFloat64()
	return int(math.Min(math.Round(ratio*100), 100))
}
