package services

import (
	"time"

	"github.com/shopspring/decimal"

	"chitieu/internal/models"
	"chitieu/internal/pagination"
)

// Scope selects whose records an operation considers: only the caller's own,
// or those of every member of the caller's family.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeFamily   Scope = "family"
)

// ScopeResolver produces the effective set of user IDs visible to a request.
// Every listing and aggregation query builds its user filter on this.
type ScopeResolver interface {
	// Resolve returns the user IDs whose records the caller may see.
	// Personal scope and family scope without a family both resolve to the
	// caller alone. A memberID outside the caller's family resolves to an
	// empty set (fail closed), never to a widened one.
	Resolve(userID string, scope Scope, memberID string) ([]string, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(email, username, password, name string) (*models.User, error)
	AttemptLogin(login, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
// To is treated as inclusive end-of-day by the HTTP layer before it gets here.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID string
	Scope      Scope
	MemberID   string
}

// OwnerView is the minimal owner projection attached to rows shown in family
// views, and to family member listings.
type OwnerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// TransactionView is a display-ready transaction row: exact decimal amounts
// are converted to plain numbers and the category and owner are resolved.
type TransactionView struct {
	ID          string                 `json:"id"`
	Amount      float64                `json:"amount"`
	Description string                 `json:"description"`
	Type        models.TransactionType `json:"type"`
	Date        time.Time              `json:"date"`
	CreatedAt   time.Time              `json:"created_at"`
	Category    models.Category        `json:"category"`
	User        OwnerView              `json:"user"`
}

// TransactionServicer defines the contract for transaction-related business
// logic. List, ListAll and VisibleCategories are reads: they degrade to empty
// results on internal failure so dashboards render instead of crashing.
// ListAll skips pagination entirely for export-style consumers.
type TransactionServicer interface {
	List(userID string, page pagination.ListRequest, filter TransactionFilter) []TransactionView
	ListAll(userID string, filter TransactionFilter) []TransactionView
	Create(userID, categoryID string, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	Update(userID, transactionID, categoryID string, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	Delete(userID, transactionID string) error
	VisibleCategories(userID string) []models.Category
}

// DailyStat is one calendar-day bucket of income and expense totals.
type DailyStat struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryStat is one category's summed expense over a window.
type CategoryStat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// YearlyMonth is one month bucket of the year-over-year comparison, with the
// current and previous year's expense sums side by side for charting.
type YearlyMonth struct {
	Month       int     `json:"month"`
	Name        string  `json:"name"`
	CurrentYear float64 `json:"currentYear"`
	LastYear    float64 `json:"lastYear"`
}

// TrendPoint is one month bucket of the trailing six-month expense trend.
type TrendPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Summary holds independent income and expense sums over a window.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// MonthlyStats compares the current month against the previous one for the
// caller's own records.
type MonthlyStats struct {
	Income          float64 `json:"income"`
	Expense         float64 `json:"expense"`
	PreviousIncome  float64 `json:"previousIncome"`
	PreviousExpense float64 `json:"previousExpense"`
}

// AnalyticsServicer computes the dashboard and report aggregations. All
// methods are pure reads and never return an error: on internal failure they
// log and degrade to empty or zero values. All sums accumulate in exact
// decimals and convert to plain numbers only in the returned DTOs. Month and
// day boundaries are computed in the configured reporting timezone.
type AnalyticsServicer interface {
	DailyStats(userID string, start, end *time.Time, scope Scope) []DailyStat
	CategoryStats(userID string, start, end *time.Time, scope Scope) []CategoryStat
	YearlyComparison(userID string, scope Scope) []YearlyMonth
	SixMonthTrend(userID string, scope Scope) []TrendPoint
	MonthlySummary(userID string, start, end *time.Time, scope Scope) Summary
	MonthlyStats(userID string) MonthlyStats
}

// BudgetView is a display-ready budget with its category resolved.
type BudgetView struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id"`
	FamilyID   string          `json:"family_id,omitempty"`
	Amount     float64         `json:"amount"`
	Category   models.Category `json:"category"`
}

// BudgetProgress is a budget joined with the current calendar month's
// spending against it.
type BudgetProgress struct {
	BudgetView
	Spent        float64 `json:"spent"`
	Percentage   int     `json:"percentage"`
	IsOverBudget bool    `json:"isOverBudget"`
}

// BudgetServicer defines the contract for budget-related business logic.
// Budgets and Progress are reads and degrade to empty results on failure.
type BudgetServicer interface {
	Upsert(userID, categoryID string, amount decimal.Decimal) error
	Budgets(userID string) []BudgetView
	Progress(userID string) []BudgetProgress
}

// CategoryServicer defines the admin contract over system default categories.
type CategoryServicer interface {
	SystemCategories() []models.Category
	CreateSystem(name string, categoryType models.TransactionType) (*models.Category, error)
	UpdateSystem(categoryID, name string, categoryType models.TransactionType) (*models.Category, error)
	DeleteSystem(categoryID string) error
}

// FamilyServicer defines the contract for family group management.
type FamilyServicer interface {
	Create(userID, name string) (*models.Family, error)
	Join(userID, inviteCode string) (*models.Family, error)
	Leave(userID string) error
	Get(userID string) *models.Family
	Members(userID string) []OwnerView
}
