package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"chitieu/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Role:     models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestFamily creates a family and attaches the given users to it.
func CreateTestFamily(t *testing.T, db *gorm.DB, members ...*models.User) *models.Family {
	t.Helper()

	family := &models.Family{
		Name:       fmt.Sprintf("Test Family %d", nextID()),
		InviteCode: fmt.Sprintf("CODE%04d", nextID()),
	}
	if err := db.Create(family).Error; err != nil {
		t.Fatalf("failed to create test family: %v", err)
	}

	for _, member := range members {
		if err := db.Model(member).Update("family_id", family.ID).Error; err != nil {
			t.Fatalf("failed to attach member to family: %v", err)
		}
		member.FamilyID = &family.ID
	}
	return family
}

// CreateTestCategory creates a system default category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.TransactionType) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()), categoryType)
}

// CreateTestCategoryWithName creates a system default category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string, categoryType models.TransactionType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      name,
		Type:      categoryType,
		IsDefault: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestFamilyCategory creates a category owned by the given family.
func CreateTestFamilyCategory(t *testing.T, db *gorm.DB, familyID string, categoryType models.TransactionType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Family Category %d", nextID()),
		Type:     categoryType,
		FamilyID: &familyID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test family category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount,
// dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID string, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, categoryID, txType, amount, time.Now())
}

// CreateTestTransactionAt creates a transaction dated at the given time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID, categoryID string, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a personal monthly budget for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestFamilyBudget creates a budget shared by a family.
func CreateTestFamilyBudget(t *testing.T, db *gorm.DB, userID, categoryID, familyID, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		FamilyID:   familyID,
		Amount:     decimal.RequireFromString(amount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
