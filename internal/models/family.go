package models

// Family is a group of users who share visibility into categories, budgets,
// and (in family scope) each other's transactions. The invite code is
// generated once at creation and stays stable for the family's lifetime.
type Family struct {
	Base
	Name       string `gorm:"not null" json:"name"`
	InviteCode string `gorm:"uniqueIndex;size:12;not null" json:"invite_code"`

	// Relationships
	Users []User `gorm:"foreignKey:FamilyID" json:"users,omitempty"`
}
