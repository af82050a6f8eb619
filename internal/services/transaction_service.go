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

// CreateTransactionRequest represents the request payload for creating a transaction.
// Amount is always positive; Type carries the direction.
type CreateTransactionRequest struct {
	AccountID   string                 `json:"account_id" binding:"required,uuid"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      *decimal.Decimal       `json:"amount" binding:"required,money,positive" swaggertype:"number"`
	Date        *models.Date           `json:"date" binding:"required" swaggertype:"string" example:"2024-03-15"`
	Description *string                `json:"description" binding:"omitempty,max=1000"`
	Merchant    *string                `json:"merchant" binding:"omitempty,max=255"`
	CategoryID  *string                `json:"category_id" binding:"omitempty,uuid"`
	Tags        []string               `json:"tags" binding:"omitempty,max=50,dive,min=1,max=50"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
// description, merchant, category_id and tags may be cleared with null.
type UpdateTransactionRequest struct {
	AccountID   optional.Value[string]                 `json:"account_id" binding:"omitempty,uuid" swaggertype:"string"`
	Type        optional.Value[models.TransactionType] `json:"type" binding:"omitempty,transaction_type" swaggertype:"string"`
	Amount      optional.Value[decimal.Decimal]        `json:"amount" binding:"omitempty,money,positive" swaggertype:"number"`
	Date        optional.Value[models.Date]            `json:"date" swaggertype:"string"`
	Description optional.Value[string]                 `json:"description" binding:"omitempty,max=1000" swaggertype:"string"`
	Merchant    optional.Value[string]                 `json:"merchant" binding:"omitempty,max=255" swaggertype:"string"`
	CategoryID  optional.Value[string]                 `json:"category_id" binding:"omitempty,uuid" swaggertype:"string"`
	Tags        optional.Value[[]string]               `json:"tags" binding:"omitempty,max=50,dive,min=1,max=50" swaggertype:"array,string"`
}

// TransactionResponse represents a transaction in the response
type TransactionResponse struct {
	ID          string                 `json:"id"`
	AccountID   string                 `json:"account_id"`
	Type        models.TransactionType `json:"type"`
	Amount      string                 `json:"amount" example:"42.50"`
	Date        models.Date            `json:"date" swaggertype:"string" example:"2024-03-15"`
	Description *string                `json:"description"`
	Merchant    *string                `json:"merchant"`
	CategoryID  *string                `json:"category_id"`
	Tags        []string               `json:"tags"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func newTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        t.Type,
		Amount:      formatMoney(t.Amount),
		Date:        t.Date,
		Description: t.Description,
		Merchant:    t.Merchant,
		CategoryID:  t.CategoryID,
		Tags:        t.Tags(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	transactions *repository.Repository[models.Transaction, *models.Transaction]
	accounts     *repository.Repository[models.Account, *models.Account]
	categories   *repository.Repository[models.Category, *models.Category]
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{
		transactions: repository.New[models.Transaction](db),
		accounts:     repository.New[models.Account](db),
		categories:   repository.New[models.Category](db),
	}
}

// ListTransactions returns the user's transactions matching every filter set.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) ([]TransactionResponse, error) {
	scopes := []repository.Scope{}
	if filter.StartDate != nil {
		scopes = append(scopes, repository.Where("date >= ?", *filter.StartDate))
	}
	if filter.EndDate != nil {
		scopes = append(scopes, repository.Where("date <= ?", *filter.EndDate))
	}
	if filter.AccountID != nil {
		scopes = append(scopes, repository.Where("account_id = ?", *filter.AccountID))
	}
	if filter.CategoryID != nil {
		scopes = append(scopes, repository.Where("category_id = ?", *filter.CategoryID))
	}
	scopes = append(scopes, pagination.Paginate(page))

	transactions, err := s.transactions.List(ctx, userID, scopes...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, newTransactionResponse(&transactions[i]))
	}
	return out, nil
}

// GetTransaction retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*TransactionResponse, error) {
	tx, err := s.transactions.Get(ctx, userID, transactionID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrTransactionNotFound)
	}
	resp := newTransactionResponse(tx)
	return &resp, nil
}

// CreateTransaction records a new transaction against one of the user's accounts.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (*TransactionResponse, error) {
	if req.Amount == nil || req.Date == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount and date are required")
	}
	if err := s.requireAccount(ctx, userID, req.AccountID); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if err := s.requireCategory(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	tx := &models.Transaction{
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      money(*req.Amount),
		Date:        *req.Date,
		Description: req.Description,
		Merchant:    req.Merchant,
		CategoryID:  req.CategoryID,
		Metadata:    models.MetadataForTags(req.Tags),
	}
	if err := s.transactions.Create(ctx, userID, tx); err != nil {
		return nil, mapRepoError(err, apperrors.ErrTransactionNotFound)
	}

	resp := newTransactionResponse(tx)
	return &resp, nil
}

// UpdateTransaction applies the fields present in req to an existing transaction.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req UpdateTransactionRequest) (*TransactionResponse, error) {
	if err := rejectNulls(map[string]bool{
		"account_id": req.AccountID.Null,
		"type":       req.Type.Null,
		"amount":     req.Amount.Null,
		"date":       req.Date.Null,
	}); err != nil {
		return nil, err
	}

	if _, err := s.transactions.Get(ctx, userID, transactionID); err != nil {
		return nil, mapRepoError(err, apperrors.ErrTransactionNotFound)
	}

	updates := make(map[string]interface{})
	if req.AccountID.Set {
		if err := s.requireAccount(ctx, userID, req.AccountID.Value); err != nil {
			return nil, err
		}
		updates["account_id"] = req.AccountID.Value
	}
	if req.Type.Set {
		updates["type"] = req.Type.Value
	}
	if req.Amount.Set {
		updates["amount"] = money(req.Amount.Value)
	}
	if req.Date.Set {
		updates["date"] = req.Date.Value
	}
	if req.Description.Set {
		updates["description"] = req.Description.Ptr()
	}
	if req.Merchant.Set {
		updates["merchant"] = req.Merchant.Ptr()
	}
	if req.CategoryID.Set {
		if req.CategoryID.HasValue() {
			if err := s.requireCategory(ctx, userID, req.CategoryID.Value); err != nil {
				return nil, err
			}
		}
		updates["category_id"] = req.CategoryID.Ptr()
	}
	if req.Tags.Set {
		updates["metadata"] = models.MetadataForTags(req.Tags.Value)
	}

	tx, err := s.transactions.Update(ctx, userID, transactionID, updates)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrTransactionNotFound)
	}
	resp := newTransactionResponse(tx)
	return &resp, nil
}

// DeleteTransaction removes a transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	deleted, err := s.transactions.Delete(ctx, userID, transactionID)
	if err != nil {
		return mapRepoError(err, apperrors.ErrTransactionNotFound)
	}
	if !deleted {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func (s *transactionService) requireAccount(ctx context.Context, userID, accountID string) error {
	ok, err := s.accounts.Exists(ctx, userID, accountID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

func (s *transactionService) requireCategory(ctx context.Context, userID, categoryID string) error {
	ok, err := s.categories.Exists(ctx, userID, categoryID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
