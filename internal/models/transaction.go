package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// TransactionMetadata is the auxiliary JSON column of a transaction.
type TransactionMetadata struct {
	Tags []string `json:"tags"`
}

// Value implements driver.Valuer.
func (m TransactionMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *TransactionMetadata) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*m = TransactionMetadata{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TransactionMetadata", value)
	}
	return json.Unmarshal(data, m)
}

// Transaction represents a financial transaction in the system
type Transaction struct {
	Base
	AccountID   string               `gorm:"type:uuid;not null;index" json:"account_id"`
	Type        TransactionType      `gorm:"type:varchar(50);not null" json:"type"`
	Amount      decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date        Date                 `gorm:"type:date;not null;index" json:"date"`
	Description *string              `gorm:"type:text" json:"description"`
	Merchant    *string              `gorm:"type:varchar(255)" json:"merchant"`
	CategoryID  *string              `gorm:"type:uuid;index" json:"category_id"`
	Metadata    *TransactionMetadata `gorm:"column:metadata;type:json" json:"-"`

	// Relationships
	Account  *Account  `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

// Tags returns the transaction's tag list, nil when none are stored.
func (t *Transaction) Tags() []string {
	if t.Metadata == nil || len(t.Metadata.Tags) == 0 {
		return nil
	}
	return t.Metadata.Tags
}

// MetadataForTags builds the stored metadata for a tag list. No tags means
// no metadata at all.
func MetadataForTags(tags []string) *TransactionMetadata {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return &TransactionMetadata{Tags: out}
}
