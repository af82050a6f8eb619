package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a unique subject for a test user.
func NewUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// CreateTestAccount creates a checking account with zero initial balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, decimal.Zero)
}

// CreateTestAccountWithBalance creates a checking account with the given initial balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Type:           models.AccountTypeChecking,
		Currency:       "USD",
		InitialBalance: balance,
	}
	account.SetOwner(userID)
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a root category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestSubcategory(t, db, userID, categoryType, nil)
}

// CreateTestSubcategory creates a category under parentID.
func CreateTestSubcategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType, parentID *string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Type:     categoryType,
		ParentID: parentID,
	}
	category.SetOwner(userID)
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction dated today.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount decimal.Decimal) *models.Transaction {
	t.Helper()
	now := time.Now().UTC()
	return CreateTestTransactionOn(t, db, userID, accountID, txType, amount, models.NewDate(now.Year(), now.Month(), now.Day()))
}

// CreateTestTransactionOn creates a transaction on the given date.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount decimal.Decimal, date models.Date) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		Date:      date,
	}
	tx.SetOwner(userID)
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget of 100.00 for the given category and month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, month models.Date) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Month:       month.FirstOfMonth(),
		CategoryID:  categoryID,
		LimitAmount: decimal.NewFromInt(100),
	}
	budget.SetOwner(userID)
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
