package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// budgetQuery holds the query parameters of the budget list.
type budgetQuery struct {
	pagination.PageRequest
	Month string `form:"month" binding:"omitempty,datetime=2006-01-02"`
}

// ListBudgets handles the retrieval of budgets for a user
// @Summary     List budgets
// @Description List the authenticated user's budgets, optionally for one month
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       month     query string false "Any date in the month (YYYY-MM-DD)"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Items per page (max 100)"
// @Success     200 {array}  services.BudgetResponse "Budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/ [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query budgetQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var filter services.BudgetFilter
	if query.Month != "" {
		month, err := models.ParseDate(query.Month)
		if err != nil {
			respondWithError(c, apperrors.WithFields(apperrors.ErrInvalidInput, err.Error(), map[string]string{"month": "datetime"}))
			return
		}
		filter.Month = &month
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), userID, filter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgets)
}

// CreateBudget handles the creation of a new budget
// @Summary     Create a budget
// @Description Create a monthly budget for one of the user's categories; month is stored as the first of the month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     services.CreateBudgetRequest true "Budget details"
// @Success     201     {object} services.BudgetResponse "Budget created"
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     404     {object} ErrorResponse "Category not found"
// @Failure     500     {object} ErrorResponse "Server error"
// @Router      /budgets/ [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// GetBudget handles the retrieval of a specific budget
// @Summary     Get budget
// @Description Get a budget owned by the authenticated user
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Budget ID"
// @Success     200 {object} services.BudgetResponse "Budget"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// UpdateBudget handles a partial update of a budget
// @Summary     Update budget
// @Description Update the fields present in the body; omitted fields are left unchanged
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     string                        true "Budget ID"
// @Param       request body     services.UpdateBudgetRequest true "Fields to update"
// @Success     200     {object} services.BudgetResponse "Updated budget"
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     404     {object} ErrorResponse "Budget not found"
// @Failure     500     {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, budgetID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// DeleteBudget handles deleting a budget
// @Summary     Delete budget
// @Description Delete a budget
// @Tags        budgets
// @Security    BearerAuth
// @Param       id  path string true "Budget ID"
// @Success     204 "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
