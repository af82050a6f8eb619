package models

import "github.com/shopspring/decimal"

// Budget represents a monthly spending limit for a category
type Budget struct {
	Base
	Month       Date            `gorm:"type:date;not null;index" json:"month"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	LimitAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"limit_amount"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}
