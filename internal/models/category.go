package models

// Category represents a transaction category. A category is either a system
// default (IsDefault true, FamilyID nil, managed by administrators) or owned
// by a single family (IsDefault false, FamilyID set) — never neither.
type Category struct {
	Base
	Name      string          `gorm:"not null" json:"name"`
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	IsDefault bool            `gorm:"not null;default:false" json:"is_default"`
	FamilyID  *string         `gorm:"type:uuid;index" json:"family_id,omitempty"`

	// Relationships
	Family       *Family       `gorm:"foreignKey:FamilyID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"-"`
}
