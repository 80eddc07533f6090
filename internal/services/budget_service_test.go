package services

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"chitieu/internal/models"
	"chitieu/internal/testutil"
)

func TestUpsertBudget(t *testing.T) {
	t.Run("creates_then_updates_same_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.AssertNoError(t, svc.Upsert(user.ID, cat.ID, decimal.NewFromInt(500000)))
		testutil.AssertNoError(t, svc.Upsert(user.ID, cat.ID, decimal.NewFromInt(750000)))

		var budgets []models.Budget
		if err := db.Where("user_id = ? AND category_id = ?", user.ID, cat.ID).Find(&budgets).Error; err != nil {
			t.Fatalf("failed to load budgets: %v", err)
		}
		if len(budgets) != 1 {
			t.Fatalf("expected exactly one budget row, got %d", len(budgets))
		}
		if !budgets[0].Amount.Equal(decimal.NewFromInt(750000)) {
			t.Errorf("expected amount 750000, got %s", budgets[0].Amount)
		}
	})

	t.Run("concurrent_upserts_leave_one_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		// SQLite serializes writers anyway; one connection keeps the driver
		// from surfacing busy errors while the goroutines pile up.
		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("failed to get underlying DB: %v", err)
		}
		sqlDB.SetMaxOpenConns(1)

		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(amount int64) {
				defer wg.Done()
				if err := svc.Upsert(user.ID, cat.ID, decimal.NewFromInt(amount)); err != nil {
					t.Errorf("concurrent upsert failed: %v", err)
				}
			}(int64(100000 + i))
		}
		wg.Wait()

		var count int64
		if err := db.Model(&models.Budget{}).
			Where("user_id = ? AND category_id = ?", user.ID, cat.ID).
			Count(&count).Error; err != nil {
			t.Fatalf("failed to count budgets: %v", err)
		}
		if count != 1 {
			t.Errorf("expected exactly one budget row after concurrent upserts, got %d", count)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.AssertAppError(t, svc.Upsert(user.ID, cat.ID, decimal.Zero), "INVALID_INPUT")
		testutil.AssertAppError(t, svc.Upsert(user.ID, cat.ID, decimal.NewFromInt(-1)), "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertAppError(t, svc.Upsert(user.ID, "no-such-category", decimal.NewFromInt(100)), "CATEGORY_NOT_FOUND")
	})

	t.Run("family_member_upsert_is_family_scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, user)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.AssertNoError(t, svc.Upsert(user.ID, cat.ID, decimal.NewFromInt(300000)))

		var budget models.Budget
		if err := db.Where("user_id = ?", user.ID).First(&budget).Error; err != nil {
			t.Fatalf("failed to load budget: %v", err)
		}
		if budget.FamilyID != family.ID {
			t.Errorf("expected budget scoped to family %s, got %q", family.ID, budget.FamilyID)
		}
	})
}

func TestBudgets(t *testing.T) {
	t.Run("own_and_family_budgets_visible", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		sibling := testutil.CreateTestUser(t, db)
		stranger := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, user, sibling)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		mine := testutil.CreateTestBudget(t, db, user.ID, cat.ID, "100000")
		shared := testutil.CreateTestFamilyBudget(t, db, sibling.ID, cat.ID, family.ID, "200000")
		theirs := testutil.CreateTestBudget(t, db, stranger.ID, cat.ID, "999999")

		visible := map[string]bool{}
		for _, view := range svc.Budgets(user.ID) {
			visible[view.ID] = true
		}

		if !visible[mine.ID] {
			t.Error("own budget should be visible")
		}
		if !visible[shared.ID] {
			t.Error("family budget created by a sibling should be visible")
		}
		if visible[theirs.ID] {
			t.Error("a stranger's budget must not be visible")
		}
	})
}

func TestBudgetProgress(t *testing.T) {
	t.Run("family_budget_counts_all_members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		sibling := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, user, sibling)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.CreateTestFamilyBudget(t, db, user.ID, cat.ID, family.ID, "250000")
		testutil.CreateTestTransaction(t, db, user.ID, cat.ID, models.TransactionTypeExpense, "150000")
		testutil.CreateTestTransaction(t, db, sibling.ID, cat.ID, models.TransactionTypeExpense, "150000")

		progress := svc.Progress(user.ID)
		if len(progress) != 1 {
			t.Fatalf("expected 1 budget progress, got %d", len(progress))
		}

		p := progress[0]
		if p.Spent != 300000 {
			t.Errorf("expected spent 300000, got %v", p.Spent)
		}
		if p.Percentage != 100 {
			t.Errorf("expected percentage capped at 100, got %d", p.Percentage)
		}
		if !p.IsOverBudget {
			t.Error("expected the budget to be flagged over")
		}
	})

	t.Run("personal_budget_counts_caller_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.CreateTestBudget(t, db, user.ID, cat.ID, "200000")
		testutil.CreateTestTransaction(t, db, user.ID, cat.ID, models.TransactionTypeExpense, "50000")
		testutil.CreateTestTransaction(t, db, other.ID, cat.ID, models.TransactionTypeExpense, "999999")

		progress := svc.Progress(user.ID)
		if len(progress) != 1 {
			t.Fatalf("expected 1 budget progress, got %d", len(progress))
		}
		if progress[0].Spent != 50000 {
			t.Errorf("expected spent 50000, got %v", progress[0].Spent)
		}
		if progress[0].Percentage != 25 {
			t.Errorf("expected percentage 25, got %d", progress[0].Percentage)
		}
		if progress[0].IsOverBudget {
			t.Error("budget at 25%% must not be flagged over")
		}
	})

	t.Run("ignores_income_and_other_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.CreateTestBudget(t, db, user.ID, cat.ID, "100000")
		testutil.CreateTestTransaction(t, db, user.ID, cat.ID, models.TransactionTypeIncome, "90000")
		testutil.CreateTestTransactionAt(t, db, user.ID, cat.ID, models.TransactionTypeExpense, "80000",
			time.Now().AddDate(0, -2, 0))

		progress := svc.Progress(user.ID)
		if len(progress) != 1 {
			t.Fatalf("expected 1 budget progress, got %d", len(progress))
		}
		if progress[0].Spent != 0 {
			t.Errorf("expected spent 0, got %v", progress[0].Spent)
		}
	})

	t.Run("zero_limit_budget_is_defined", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.CreateTestBudget(t, db, user.ID, cat.ID, "0")

		progress := svc.Progress(user.ID)
		if len(progress) != 1 {
			t.Fatalf("expected 1 budget progress, got %d", len(progress))
		}
		if progress[0].Percentage != 0 {
			t.Errorf("expected percentage 0 for nothing spent, got %d", progress[0].Percentage)
		}

		testutil.CreateTestTransaction(t, db, user.ID, cat.ID, models.TransactionTypeExpense, "1")
		progress = svc.Progress(user.ID)
		if progress[0].Percentage != 100 {
			t.Errorf("expected percentage 100 once anything is spent, got %d", progress[0].Percentage)
		}
	})

	t.Run("sorted_most_consumed_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, time.UTC)
		user := testutil.CreateTestUser(t, db)
		lightCat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)
		heavyCat := testutil.CreateTestCategory(t, db, models.TransactionTypeExpense)

		testutil.CreateTestBudget(t, db, user.ID, lightCat.ID, "100000")
		testutil.CreateTestBudget(t, db, user.ID, heavyCat.ID, "100000")
		testutil.CreateTestTransaction(t, db, user.ID, lightCat.ID, models.TransactionTypeExpense, "10000")
		testutil.CreateTestTransaction(t, db, user.ID, heavyCat.ID, models.TransactionTypeExpense, "90000")

		progress := svc.Progress(user.ID)
		if len(progress) != 2 {
			t.Fatalf("expected 2 budget progresses, got %d", len(progress))
		}
		if progress[0].CategoryID != heavyCat.ID {
			t.Error("expected the most consumed budget first")
		}
	})
}
