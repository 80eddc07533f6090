// Package seed installs the baseline data a fresh deployment needs: the
// default category set and the bootstrap admin account. Running it again is a
// no-op for anything that already exists.
package seed

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chitieu/internal/logger"
	"chitieu/internal/models"
)

// defaultCategories is the stock category set every user starts with.
var defaultCategories = []struct {
	Name string
	Type models.TransactionType
}{
	{"Ăn uống", models.TransactionTypeExpense},
	{"Di chuyển", models.TransactionTypeExpense},
	{"Mua sắm", models.TransactionTypeExpense},
	{"Giải trí", models.TransactionTypeExpense},
	{"Hóa đơn & Tiện ích", models.TransactionTypeExpense},
	{"Sức khỏe", models.TransactionTypeExpense},
	{"Giáo dục", models.TransactionTypeExpense},
	{"Lương", models.TransactionTypeIncome},
	{"Thưởng", models.TransactionTypeIncome},
	{"Đầu tư", models.TransactionTypeIncome},
	{"Gia đình", models.TransactionTypeExpense},
	{"Khác", models.TransactionTypeExpense},
}

const (
	adminEmail    = "admin@example.com"
	adminUsername = "admin"
	adminPassword = "Abcd@1234"
)

// Run seeds the default categories and the admin account.
func Run(db *gorm.DB) error {
	if err := seedCategories(db); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := seedAdmin(db); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}

func seedCategories(db *gorm.DB) error {
	for _, c := range defaultCategories {
		var count int64
		if err := db.Model(&models.Category{}).
			Where("name = ? AND is_default = ?", c.Name, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		category := &models.Category{Name: c.Name, Type: c.Type, IsDefault: true}
		if err := db.Create(category).Error; err != nil {
			return err
		}
		logger.Get().Infow("seeded default category", "name", c.Name, "type", c.Type)
	}
	return nil
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	username := adminUsername
	admin := &models.User{
		Email:    adminEmail,
		Username: &username,
		Password: string(hash),
		Name:     "Administrator",
		Role:     models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	logger.Get().Infow("seeded admin account", "email", adminEmail)
	return nil
}
