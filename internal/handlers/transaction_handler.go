package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// transactionQuery holds the query parameters of the transaction list.
type transactionQuery struct {
	pagination.PageRequest
	StartDate  string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	AccountID  string `form:"account_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
}

func (q transactionQuery) filter() (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	for _, bound := range []struct {
		name  string
		value string
		dest  **models.Date
	}{
		{"start_date", q.StartDate, &filter.StartDate},
		{"end_date", q.EndDate, &filter.EndDate},
	} {
		if bound.value == "" {
			continue
		}
		d, err := models.ParseDate(bound.value)
		if err != nil {
			return filter, apperrors.WithFields(apperrors.ErrInvalidInput, err.Error(), map[string]string{bound.name: "datetime"})
		}
		*bound.dest = &d
	}
	if q.AccountID != "" {
		filter.AccountID = &q.AccountID
	}
	if q.CategoryID != "" {
		filter.CategoryID = &q.CategoryID
	}
	return filter, nil
}

// ListTransactions handles the retrieval of transactions for a user
// @Summary     List transactions
// @Description List the authenticated user's transactions; all filters are optional and combined
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       start_date  query string false "Earliest date, inclusive (YYYY-MM-DD)"
// @Param       end_date    query string false "Latest date, inclusive (YYYY-MM-DD)"
// @Param       account_id  query string false "Account ID"
// @Param       category_id query string false "Category ID"
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Items per page (max 100)"
// @Success     200 {array}  services.TransactionResponse "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query transactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.ListTransactions(c.Request.Context(), userID, filter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a transaction against one of the user's accounts; tags are returned in the order given
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     services.CreateTransactionRequest true "Transaction details"
// @Success     201     {object} services.TransactionResponse "Transaction created"
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     404     {object} ErrorResponse "Account or category not found"
// @Failure     500     {object} ErrorResponse "Server error"
// @Router      /transactions/ [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// GetTransaction handles the retrieval of a specific transaction
// @Summary     Get transaction
// @Description Get a transaction owned by the authenticated user
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Transaction ID"
// @Success     200 {object} services.TransactionResponse "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction handles a partial update of a transaction
// @Summary     Update transaction
// @Description Update the fields present in the body; omitted fields are left unchanged
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     string                        true "Transaction ID"
// @Param       request body     services.UpdateTransactionRequest true "Fields to update"
// @Success     200     {object} services.TransactionResponse "Updated transaction"
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     404     {object} ErrorResponse "Transaction not found"
// @Failure     500     {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Description Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id  path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
