package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a transaction category. Categories form a forest
// through ParentID; deleting a parent clears the reference on its children.
type Category struct {
	Base
	Name     string       `gorm:"type:varchar(255);not null" json:"name"`
	Type     CategoryType `gorm:"type:varchar(50);not null" json:"type"`
	ParentID *string      `gorm:"type:uuid;index" json:"parent_id"`

	// Relationships
	Parent *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
}
