package services

import (
	"context"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	ListAccounts(ctx context.Context, userID string, page pagination.PageRequest) ([]AccountResponse, error)
	GetAccount(ctx context.Context, userID, accountID string) (*AccountResponse, error)
	CreateAccount(ctx context.Context, userID string, req CreateAccountRequest) (*AccountResponse, error)
	UpdateAccount(ctx context.Context, userID, accountID string, req UpdateAccountRequest) (*AccountResponse, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context, userID string, page pagination.PageRequest) ([]CategoryResponse, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*CategoryResponse, error)
	CreateCategory(ctx context.Context, userID string, req CreateCategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	Month *models.Date
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	ListBudgets(ctx context.Context, userID string, filter BudgetFilter, page pagination.PageRequest) ([]BudgetResponse, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*BudgetResponse, error)
	CreateBudget(ctx context.Context, userID string, req CreateBudgetRequest) (*BudgetResponse, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, req UpdateBudgetRequest) (*BudgetResponse, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Date bounds are inclusive.
type TransactionFilter struct {
	StartDate  *models.Date
	EndDate    *models.Date
	AccountID  *string
	CategoryID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) ([]TransactionResponse, error)
	GetTransaction(ctx context.Context, userID, transactionID string) (*TransactionResponse, error)
	CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (*TransactionResponse, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, req UpdateTransactionRequest) (*TransactionResponse, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}
