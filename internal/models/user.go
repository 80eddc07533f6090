package models

// Role controls access to the admin-only category management surface.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents the user model in the database. A user belongs to at most
// one family at a time; FamilyID is nil for users outside any family.
type User struct {
	Base
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Username *string `gorm:"uniqueIndex" json:"username,omitempty"`
	Password string  `gorm:"not null" json:"-"`
	Name     string  `json:"name"`
	Image    string  `json:"image,omitempty"`
	Role     Role    `gorm:"type:varchar(10);not null;default:USER" json:"role"`
	FamilyID *string `gorm:"type:uuid;index" json:"family_id,omitempty"`

	RefreshTokenHash string `gorm:"size:64" json:"-"`

	// Relationships
	Family       *Family       `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}
