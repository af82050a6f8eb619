package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCash       AccountType = "cash"
)

// AccountTypes lists every accepted account type.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeCredit,
	AccountTypeInvestment,
	AccountTypeCash,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Account represents a financial account in the system
type Account struct {
	Base
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Type           AccountType     `gorm:"type:varchar(50);not null" json:"type"`
	Currency       string          `gorm:"type:varchar(3);not null" json:"currency"`
	InitialBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"initial_balance"`
}
