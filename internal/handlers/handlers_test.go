package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/middleware"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// --- mock services ---

type mockAccountService struct {
	listFn   func(userID string, page pagination.PageRequest) ([]services.AccountResponse, error)
	getFn    func(userID, accountID string) (*services.AccountResponse, error)
	createFn func(userID string, req services.CreateAccountRequest) (*services.AccountResponse, error)
	updateFn func(userID, accountID string, req services.UpdateAccountRequest) (*services.AccountResponse, error)
	deleteFn func(userID, accountID string) error
}

func (m *mockAccountService) ListAccounts(_ context.Context, userID string, page pagination.PageRequest) ([]services.AccountResponse, error) {
	if m.listFn != nil {
		return m.listFn(userID, page)
	}
	return []services.AccountResponse{}, nil
}

func (m *mockAccountService) GetAccount(_ context.Context, userID, accountID string) (*services.AccountResponse, error) {
	if m.getFn != nil {
		return m.getFn(userID, accountID)
	}
	return &services.AccountResponse{ID: accountID}, nil
}

func (m *mockAccountService) CreateAccount(_ context.Context, userID string, req services.CreateAccountRequest) (*services.AccountResponse, error) {
	if m.createFn != nil {
		return m.createFn(userID, req)
	}
	return &services.AccountResponse{}, nil
}

func (m *mockAccountService) UpdateAccount(_ context.Context, userID, accountID string, req services.UpdateAccountRequest) (*services.AccountResponse, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, accountID, req)
	}
	return &services.AccountResponse{ID: accountID}, nil
}

func (m *mockAccountService) DeleteAccount(_ context.Context, userID, accountID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, accountID)
	}
	return nil
}

type mockCategoryService struct {
	listFn   func(userID string, page pagination.PageRequest) ([]services.CategoryResponse, error)
	getFn    func(userID, categoryID string) (*services.CategoryResponse, error)
	createFn func(userID string, req services.CreateCategoryRequest) (*services.CategoryResponse, error)
	updateFn func(userID, categoryID string, req services.UpdateCategoryRequest) (*services.CategoryResponse, error)
	deleteFn func(userID, categoryID string) error
}

func (m *mockCategoryService) ListCategories(_ context.Context, userID string, page pagination.PageRequest) ([]services.CategoryResponse, error) {
	if m.listFn != nil {
		return m.listFn(userID, page)
	}
	return []services.CategoryResponse{}, nil
}

func (m *mockCategoryService) GetCategory(_ context.Context, userID, categoryID string) (*services.CategoryResponse, error) {
	if m.getFn != nil {
		return m.getFn(userID, categoryID)
	}
	return &services.CategoryResponse{ID: categoryID}, nil
}

func (m *mockCategoryService) CreateCategory(_ context.Context, userID string, req services.CreateCategoryRequest) (*services.CategoryResponse, error) {
	if m.createFn != nil {
		return m.createFn(userID, req)
	}
	return &services.CategoryResponse{}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, userID, categoryID string, req services.UpdateCategoryRequest) (*services.CategoryResponse, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, categoryID, req)
	}
	return &services.CategoryResponse{ID: categoryID}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, userID, categoryID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, categoryID)
	}
	return nil
}

type mockBudgetService struct {
	listFn   func(userID string, filter services.BudgetFilter, page pagination.PageRequest) ([]services.BudgetResponse, error)
	getFn    func(userID, budgetID string) (*services.BudgetResponse, error)
	createFn func(userID string, req services.CreateBudgetRequest) (*services.BudgetResponse, error)
	updateFn func(userID, budgetID string, req services.UpdateBudgetRequest) (*services.BudgetResponse, error)
	deleteFn func(userID, budgetID string) error
}

func (m *mockBudgetService) ListBudgets(_ context.Context, userID string, filter services.BudgetFilter, page pagination.PageRequest) ([]services.BudgetResponse, error) {
	if m.listFn != nil {
		return m.listFn(userID, filter, page)
	}
	return []services.BudgetResponse{}, nil
}

func (m *mockBudgetService) GetBudget(_ context.Context, userID, budgetID string) (*services.BudgetResponse, error) {
	if m.getFn != nil {
		return m.getFn(userID, budgetID)
	}
	return &services.BudgetResponse{ID: budgetID}, nil
}

func (m *mockBudgetService) CreateBudget(_ context.Context, userID string, req services.CreateBudgetRequest) (*services.BudgetResponse, error) {
	if m.createFn != nil {
		return m.createFn(userID, req)
	}
	return &services.BudgetResponse{}, nil
}

func (m *mockBudgetService) UpdateBudget(_ context.Context, userID, budgetID string, req services.UpdateBudgetRequest) (*services.BudgetResponse, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, budgetID, req)
	}
	return &services.BudgetResponse{ID: budgetID}, nil
}

func (m *mockBudgetService) DeleteBudget(_ context.Context, userID, budgetID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, budgetID)
	}
	return nil
}

type mockTransactionService struct {
	listFn   func(userID string, filter services.TransactionFilter, page pagination.PageRequest) ([]services.TransactionResponse, error)
	getFn    func(userID, transactionID string) (*services.TransactionResponse, error)
	createFn func(userID string, req services.CreateTransactionRequest) (*services.TransactionResponse, error)
	updateFn func(userID, transactionID string, req services.UpdateTransactionRequest) (*services.TransactionResponse, error)
	deleteFn func(userID, transactionID string) error
}

func (m *mockTransactionService) ListTransactions(_ context.Context, userID string, filter services.TransactionFilter, page pagination.PageRequest) ([]services.TransactionResponse, error) {
	if m.listFn != nil {
		return m.listFn(userID, filter, page)
	}
	return []services.TransactionResponse{}, nil
}

func (m *mockTransactionService) GetTransaction(_ context.Context, userID, transactionID string) (*services.TransactionResponse, error) {
	if m.getFn != nil {
		return m.getFn(userID, transactionID)
	}
	return &services.TransactionResponse{ID: transactionID}, nil
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID string, req services.CreateTransactionRequest) (*services.TransactionResponse, error) {
	if m.createFn != nil {
		return m.createFn(userID, req)
	}
	return &services.TransactionResponse{}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, userID, transactionID string, req services.UpdateTransactionRequest) (*services.TransactionResponse, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, transactionID, req)
	}
	return &services.TransactionResponse{ID: transactionID}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, transactionID)
	}
	return nil
}

// verify interface compliance
var (
	_ services.AccountServicer     = (*mockAccountService)(nil)
	_ services.CategoryServicer    = (*mockCategoryService)(nil)
	_ services.BudgetServicer      = (*mockBudgetService)(nil)
	_ services.TransactionServicer = (*mockTransactionService)(nil)
)

// --- test helpers ---

const (
	testUserID = "user-123"
	testID     = "0190b6a2-7c1e-7d3a-9f00-2b8e4c6d1a01"
	otherID    = "0190b6a2-7c1e-7d3a-9f00-2b8e4c6d1a02"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.EmailKey, "ana@example.com")
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

