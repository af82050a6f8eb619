package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/optional"
	"fintrack/internal/pagination"
	"fintrack/internal/repository"
)

// CreateBudgetRequest represents the request payload for creating a budget.
// Any day of the month may be sent; it is stored as the first of the month.
type CreateBudgetRequest struct {
	Month       *models.Date     `json:"month" binding:"required" swaggertype:"string" example:"2024-03-01"`
	CategoryID  string           `json:"category_id" binding:"required,uuid"`
	LimitAmount *decimal.Decimal `json:"limit_amount" binding:"required,money,nonnegative" swaggertype:"number"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Month       optional.Value[models.Date]     `json:"month" swaggertype:"string"`
	CategoryID  optional.Value[string]          `json:"category_id" binding:"omitempty,uuid" swaggertype:"string"`
	LimitAmount optional.Value[decimal.Decimal] `json:"limit_amount" binding:"omitempty,money,nonnegative" swaggertype:"number"`
}

// BudgetResponse represents a budget in the response
type BudgetResponse struct {
	ID          string      `json:"id"`
	Month       models.Date `json:"month" swaggertype:"string" example:"2024-03-01"`
	CategoryID  string      `json:"category_id"`
	LimitAmount string      `json:"limit_amount" example:"500.00"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func newBudgetResponse(b *models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:          b.ID,
		Month:       b.Month,
		CategoryID:  b.CategoryID,
		LimitAmount: formatMoney(b.LimitAmount),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// budgetService handles budget-related business logic.
type budgetService struct {
	budgets    *repository.Repository[models.Budget, *models.Budget]
	categories *repository.Repository[models.Category, *models.Category]
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{
		budgets:    repository.New[models.Budget](db),
		categories: repository.New[models.Category](db),
	}
}

// ListBudgets returns the user's budgets, optionally for a single month.
func (s *budgetService) ListBudgets(ctx context.Context, userID string, filter BudgetFilter, page pagination.PageRequest) ([]BudgetResponse, error) {
	scopes := []repository.Scope{}
	if filter.Month != nil {
		scopes = append(scopes, repository.Where("month = ?", filter.Month.FirstOfMonth()))
	}
	scopes = append(scopes, pagination.Paginate(page))

	budgets, err := s.budgets.List(ctx, userID, scopes...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, newBudgetResponse(&budgets[i]))
	}
	return out, nil
}

// GetBudget retrieves a budget by ID for a specific user
func (s *budgetService) GetBudget(ctx context.Context, userID, budgetID string) (*BudgetResponse, error) {
	budget, err := s.budgets.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrBudgetNotFound)
	}
	resp := newBudgetResponse(budget)
	return &resp, nil
}

// CreateBudget creates a new monthly budget
func (s *budgetService) CreateBudget(ctx context.Context, userID string, req CreateBudgetRequest) (*BudgetResponse, error) {
	if req.Month == nil || req.LimitAmount == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month and limit_amount are required")
	}
	if err := s.requireCategory(ctx, userID, req.CategoryID); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		Month:       req.Month.FirstOfMonth(),
		CategoryID:  req.CategoryID,
		LimitAmount: money(*req.LimitAmount),
	}
	if err := s.budgets.Create(ctx, userID, budget); err != nil {
		return nil, mapRepoError(err, apperrors.ErrBudgetNotFound)
	}

	resp := newBudgetResponse(budget)
	return &resp, nil
}

// UpdateBudget applies the fields present in req to an existing budget.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, req UpdateBudgetRequest) (*BudgetResponse, error) {
	if err := rejectNulls(map[string]bool{
		"month":        req.Month.Null,
		"category_id":  req.CategoryID.Null,
		"limit_amount": req.LimitAmount.Null,
	}); err != nil {
		return nil, err
	}

	if _, err := s.budgets.Get(ctx, userID, budgetID); err != nil {
		return nil, mapRepoError(err, apperrors.ErrBudgetNotFound)
	}

	updates := make(map[string]interface{})
	if req.Month.Set {
		updates["month"] = req.Month.Value.FirstOfMonth()
	}
	if req.CategoryID.Set {
		if err := s.requireCategory(ctx, userID, req.CategoryID.Value); err != nil {
			return nil, err
		}
		updates["category_id"] = req.CategoryID.Value
	}
	if req.LimitAmount.Set {
		updates["limit_amount"] = money(req.LimitAmount.Value)
	}

	budget, err := s.budgets.Update(ctx, userID, budgetID, updates)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrBudgetNotFound)
	}
	resp := newBudgetResponse(budget)
	return &resp, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	deleted, err := s.budgets.Delete(ctx, userID, budgetID)
	if err != nil {
		return mapRepoError(err, apperrors.ErrBudgetNotFound)
	}
	if !deleted {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

func (s *budgetService) requireCategory(ctx context.Context, userID, categoryID string) error {
	ok, err := s.categories.Exists(ctx, userID, categoryID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
