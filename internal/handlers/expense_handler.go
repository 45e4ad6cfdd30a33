package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	CategoryID    string               `json:"category_id" binding:"required,uuid"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          time.Time            `json:"date" binding:"required"`
	Remarks       string               `json:"remarks" binding:"max=200"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	Tags          []string             `json:"tags" binding:"omitempty,dive,max=20"`
	IsRecurring   bool                 `json:"is_recurring"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	CategoryID    *string               `json:"category_id" binding:"omitempty,uuid"`
	Amount        *decimal.Decimal      `json:"amount"`
	Date          *time.Time            `json:"date"`
	Remarks       *string               `json:"remarks" binding:"omitempty,max=200"`
	PaymentMethod *models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	Tags          []string              `json:"tags" binding:"omitempty,dive,max=20"`
}

// CreateExpense handles recording a one-off expense.
// @Summary     Create an expense
// @Description Record a one-off expense. Recurring expenses are created by the recurrence engine only.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, services.ExpenseInput{
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Date:          req.Date,
		Remarks:       req.Remarks,
		PaymentMethod: req.PaymentMethod,
		Tags:          req.Tags,
		IsRecurring:   req.IsRecurring,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String(), "category_id": req.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses for the authenticated user.
// @Summary     Get expenses
// @Description Get a paginated, filtered list of expenses, newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       from_date            query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date              query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       category_id          query string false "Filter by category"
// @Param       is_recurring         query bool   false "Filter by recurring origin"
// @Param       recurring_expense_id query string false "Filter by source recurring expense"
// @Param       page                 query int    false "Page number (default 1)"
// @Param       page_size            query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving a single expense.
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense.
// @Summary     Update expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, services.ExpenseUpdate{
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Date:          req.Date,
		Remarks:       req.Remarks,
		PaymentMethod: req.PaymentMethod,
		Tags:          req.Tags,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	if v := c.Query("category_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id")
		}
		filter.CategoryID = &v
	}

	if v := c.Query("is_recurring"); v != "" {
		switch v {
		case "true":
			b := true
			filter.IsRecurring = &b
		case "false":
			b := false
			filter.IsRecurring = &b
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "is_recurring must be 'true' or 'false'")
		}
	}

	if v := c.Query("recurring_expense_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid recurring_expense_id")
		}
		filter.RecurringExpenseID = &v
	}

	return filter, nil
}
