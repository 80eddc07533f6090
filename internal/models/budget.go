package models

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit for one category. At most one budget
// exists per (category, user, family) tuple; FamilyID uses the empty string
// rather than NULL for personal budgets so the composite unique index holds
// and upserts can rely on conflict resolution.
type Budget struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_tuple" json:"user_id"`
	CategoryID string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_tuple" json:"category_id"`
	FamilyID   string          `gorm:"type:uuid;not null;default:'';uniqueIndex:idx_budget_tuple" json:"family_id,omitempty"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"-"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
