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

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,min=1,max=255"`
	Type           models.AccountType `json:"type" binding:"required,account_type"`
	Currency       string             `json:"currency" binding:"required,iso4217"`
	InitialBalance *decimal.Decimal   `json:"initial_balance" binding:"omitempty,money" swaggertype:"number"`
}

// UpdateAccountRequest represents the request payload for updating an account.
// Omitted fields are left unchanged.
type UpdateAccountRequest struct {
	Name           optional.Value[string]             `json:"name" binding:"omitempty,min=1,max=255" swaggertype:"string"`
	Type           optional.Value[models.AccountType] `json:"type" binding:"omitempty,account_type" swaggertype:"string"`
	Currency       optional.Value[string]             `json:"currency" binding:"omitempty,iso4217" swaggertype:"string"`
	InitialBalance optional.Value[decimal.Decimal]    `json:"initial_balance" binding:"omitempty,money" swaggertype:"number"`
}

// AccountResponse represents an account in the response
type AccountResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Type           models.AccountType `json:"type"`
	Currency       string             `json:"currency"`
	InitialBalance string             `json:"initial_balance" example:"100.00"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func newAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           a.Type,
		Currency:       a.Currency,
		InitialBalance: formatMoney(a.InitialBalance),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// accountService handles account-related business logic.
type accountService struct {
	accounts *repository.Repository[models.Account, *models.Account]
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{accounts: repository.New[models.Account](db)}
}

// ListAccounts returns the user's accounts in creation order.
func (s *accountService) ListAccounts(ctx context.Context, userID string, page pagination.PageRequest) ([]AccountResponse, error) {
	accounts, err := s.accounts.List(ctx, userID, pagination.Paginate(page))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, newAccountResponse(&accounts[i]))
	}
	return out, nil
}

// GetAccount retrieves an account by ID for a specific user
func (s *accountService) GetAccount(ctx context.Context, userID, accountID string) (*AccountResponse, error) {
	account, err := s.accounts.Get(ctx, userID, accountID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrAccountNotFound)
	}
	resp := newAccountResponse(account)
	return &resp, nil
}

// CreateAccount creates a new account for a user
func (s *accountService) CreateAccount(ctx context.Context, userID string, req CreateAccountRequest) (*AccountResponse, error) {
	account := &models.Account{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
	}
	if req.InitialBalance != nil {
		account.InitialBalance = money(*req.InitialBalance)
	}

	if err := s.accounts.Create(ctx, userID, account); err != nil {
		return nil, mapRepoError(err, apperrors.ErrAccountNotFound)
	}

	resp := newAccountResponse(account)
	return &resp, nil
}

// UpdateAccount applies the fields present in req to an existing account.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID string, req UpdateAccountRequest) (*AccountResponse, error) {
	if err := rejectNulls(map[string]bool{
		"name":            req.Name.Null,
		"type":            req.Type.Null,
		"currency":        req.Currency.Null,
		"initial_balance": req.InitialBalance.Null,
	}); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name.Set {
		updates["name"] = req.Name.Value
	}
	if req.Type.Set {
		updates["type"] = req.Type.Value
	}
	if req.Currency.Set {
		updates["currency"] = req.Currency.Value
	}
	if req.InitialBalance.Set {
		updates["initial_balance"] = money(req.InitialBalance.Value)
	}

	account, err := s.accounts.Update(ctx, userID, accountID, updates)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrAccountNotFound)
	}
	resp := newAccountResponse(account)
	return &resp, nil
}

// DeleteAccount removes an account together with its transactions.
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	deleted, err := s.accounts.Delete(ctx, userID, accountID)
	if err != nil {
		return mapRepoError(err, apperrors.ErrAccountNotFound)
	}
	if !deleted {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
