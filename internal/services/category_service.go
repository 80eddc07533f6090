package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
	"chitieu/internal/models"
)

// categoryService handles system default categories, the admin-managed set
// visible to every user. Family-owned categories are read through
// TransactionServicer.VisibleCategories and are not managed here.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// SystemCategories lists all system defaults, name ascending. Degrades to an
// empty list on internal failure.
func (s *categoryService) SystemCategories() []models.Category {
	var categories []models.Category
	if err := s.db.Where("is_default = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		logger.Get().Errorw("failed to list system categories", "error", err)
		return []models.Category{}
	}
	return categories
}

// CreateSystem creates a new system default category.
func (s *categoryService) CreateSystem(name string, categoryType models.TransactionType) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != models.TransactionTypeIncome && categoryType != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be INCOME or EXPENSE")
	}

	category := &models.Category{
		Name:      name,
		Type:      categoryType,
		IsDefault: true,
		FamilyID:  nil,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateSystem renames or retypes a system default category.
func (s *categoryService) UpdateSystem(categoryID, name string, categoryType models.TransactionType) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var category models.Category
	if err := s.db.Where("id = ? AND is_default = ?", categoryID, true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{"name": name, "type": categoryType}
	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// DeleteSystem removes a system default category unless transactions still
// reference it. The reference count and the delete run inside one database
// transaction so a concurrent insert cannot slip between them.
func (s *categoryService) DeleteSystem(categoryID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND is_default = ?", categoryID, true).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var count int64
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.WithMessage(apperrors.ErrCategoryInUse,
				fmt.Sprintf("Cannot delete category: it is used by %d transactions", count))
		}

		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
