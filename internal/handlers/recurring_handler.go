package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/recurrence"
	"budgettracker/internal/repository"
	"budgettracker/internal/services"
)

// RecurringExpenseHandler handles recurring expense requests.
type RecurringExpenseHandler struct {
	recurringService services.RecurringExpenseServicer
	auditService     services.AuditServicer
	now              func() time.Time
}

// NewRecurringExpenseHandler creates a new RecurringExpenseHandler.
func NewRecurringExpenseHandler(recurringService services.RecurringExpenseServicer, auditService services.AuditServicer) *RecurringExpenseHandler {
	return &RecurringExpenseHandler{recurringService: recurringService, auditService: auditService, now: time.Now}
}

// RecurringExpenseRequest is the payload for creating or updating a recurring
// expense. Omitted fields take their default on create and are left unchanged
// on update.
type RecurringExpenseRequest struct {
	CategoryID   *string                  `json:"category_id" binding:"omitempty,uuid"`
	Title        *string                  `json:"title"`
	Amount       *decimal.Decimal         `json:"amount" swaggertype:"string"`
	Frequency    *recurrence.Frequency    `json:"frequency" binding:"omitempty,recurrence_frequency"`
	CycleDetails *recurrence.CycleDetails `json:"cycle_details"`
	StartDate    *time.Time               `json:"start_date"`
	EndDate      *time.Time               `json:"end_date"`
	ClearEndDate bool                     `json:"clear_end_date"`
	Active       *bool                    `json:"active"`
	AutoCreate   *bool                    `json:"auto_create"`
	ReminderDays *int                     `json:"reminder_days"`
	Description  *string                  `json:"description"`
	Tags         []string                 `json:"tags"`
}

func (r RecurringExpenseRequest) input() services.RecurringExpenseInput {
	return services.RecurringExpenseInput{
		CategoryID:   r.CategoryID,
		Title:        r.Title,
		Amount:       r.Amount,
		Frequency:    r.Frequency,
		CycleDetails: r.CycleDetails,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		ClearEndDate: r.ClearEndDate,
		Active:       r.Active,
		AutoCreate:   r.AutoCreate,
		ReminderDays: r.ReminderDays,
		Description:  r.Description,
		Tags:         r.Tags,
	}
}

// ProcessRecurringExpenseRequest optionally overrides the occurrence date.
type ProcessRecurringExpenseRequest struct {
	Date *time.Time `json:"date"`
}

// PreviewNextDueRequest asks for the next due date of a cycle. A non-zero
// Count also lists that many successive dates.
type PreviewNextDueRequest struct {
	Frequency    recurrence.Frequency    `json:"frequency" binding:"required,recurrence_frequency"`
	CycleDetails recurrence.CycleDetails `json:"cycle_details"`
	From         *time.Time              `json:"from"`
	Count        int                     `json:"count" binding:"omitempty,min=1,max=24"`
}

// CreateRecurringExpense handles creating a recurring expense.
// @Summary     Create a recurring expense
// @Description Create a recurring expense. The next due date is computed from the start date.
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecurringExpenseRequest true "Recurring expense details"
// @Success     201 {object} models.RecurringExpense "Recurring expense created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [post]
func (h *RecurringExpenseHandler) CreateRecurringExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	schedule, err := h.recurringService.UpsertRecurringExpense(c.Request.Context(), userID, "", req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECURRING_EXPENSE", "recurring_expense", schedule.ID, c.ClientIP(),
		map[string]interface{}{"title": schedule.Title, "amount": schedule.Amount.String(), "frequency": schedule.Frequency})

	c.JSON(http.StatusCreated, gin.H{"recurring_expense": schedule})
}

// ListRecurringExpenses handles listing recurring expenses.
// @Summary     List recurring expenses
// @Description List the user's recurring expenses ordered by next due date
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "active or inactive"
// @Param       frequency query string false "daily, weekly, monthly or yearly"
// @Success     200 {array}  models.RecurringExpense "Recurring expenses"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recurring [get]
func (h *RecurringExpenseHandler) ListRecurringExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter repository.ScheduleFilter
	switch v := c.Query("status"); v {
	case "":
	case "active":
		b := true
		filter.Active = &b
	case "inactive":
		b := false
		filter.Active = &b
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'active' or 'inactive'"))
		return
	}
	if v := c.Query("frequency"); v != "" {
		if !recurrence.Frequency(v).Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "frequency must be daily, weekly, monthly or yearly"))
			return
		}
		filter.Frequency = &v
	}

	schedules, err := h.recurringService.ListRecurringExpenses(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expenses": schedules, "count": len(schedules)})
}

// GetRecurringExpense handles retrieving one recurring expense with its ledger.
// @Summary     Get recurring expense
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring expense ID"
// @Success     200 {object} models.RecurringExpense "Recurring expense"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Recurring expense not found"
// @Router      /recurring/{id} [get]
func (h *RecurringExpenseHandler) GetRecurringExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedule, err := h.recurringService.GetRecurringExpense(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expense": schedule})
}

// UpdateRecurringExpense handles updating a recurring expense.
// @Summary     Update recurring expense
// @Description Update a recurring expense. Changing the cycle recomputes the next due date from the start date.
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Recurring expense ID"
// @Param       request body RecurringExpenseRequest true "Fields to update"
// @Success     200 {object} models.RecurringExpense "Updated recurring expense"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     404 {object} ErrorResponse "Recurring expense or category not found"
// @Router      /recurring/{id} [put]
func (h *RecurringExpenseHandler) UpdateRecurringExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	schedule, err := h.recurringService.UpsertRecurringExpense(c.Request.Context(), userID, id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_RECURRING_EXPENSE", "recurring_expense", id, c.ClientIP(),
		map[string]interface{}{"title": schedule.Title, "next_due": schedule.NextDue})

	c.JSON(http.StatusOK, gin.H{"recurring_expense": schedule})
}

// DeleteRecurringExpense handles deleting a recurring expense.
// @Summary     Delete recurring expense
// @Description Delete a recurring expense. Expenses it already created are kept.
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring expense ID"
// @Success     200 {object} map[string]string "Recurring expense deleted"
// @Failure     404 {object} ErrorResponse "Recurring expense not found"
// @Router      /recurring/{id} [delete]
func (h *RecurringExpenseHandler) DeleteRecurringExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRecurringExpense(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_RECURRING_EXPENSE", "recurring_expense", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recurring expense deleted successfully"})
}

// ToggleRecurringExpense handles pausing or resuming a recurring expense.
// @Summary     Toggle recurring expense
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring expense ID"
// @Success     200 {object} models.RecurringExpense "Toggled recurring expense"
// @Failure     404 {object} ErrorResponse "Recurring expense not found"
// @Router      /recurring/{id}/toggle [patch]
func (h *RecurringExpenseHandler) ToggleRecurringExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedule, err := h.recurringService.ToggleRecurringExpense(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "TOGGLE_RECURRING_EXPENSE", "recurring_expense", id, c.ClientIP(),
		map[string]interface{}{"active": schedule.Active})

	c.JSON(http.StatusOK, gin.H{"recurring_expense": schedule})
}

// ProcessRecurringExpense handles materializing one occurrence on demand.
// @Summary     Process recurring expense
// @Description Create an expense from a recurring expense now, or on the given date, and advance its next due date
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                         true  "Recurring expense ID"
// @Param       request body ProcessRecurringExpenseRequest false "Optional occurrence date"
// @Success     201 {object} services.ManualMaterialization "Expense created"
// @Failure     400 {object} ErrorResponse "Recurring expense inactive or ended"
// @Failure     404 {object} ErrorResponse "Recurring expense not found"
// @Failure     409 {object} ErrorResponse "Occurrence already materialized"
// @Failure     500 {object} ErrorResponse "Materialization failed"
// @Router      /recurring/{id}/process [post]
func (h *RecurringExpenseHandler) ProcessRecurringExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProcessRecurringExpenseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, bindError(err))
			return
		}
	}

	result, err := h.recurringService.MaterializeOne(c.Request.Context(), userID, id, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "PROCESS_RECURRING_EXPENSE", "recurring_expense", id, c.ClientIP(),
		map[string]interface{}{"expense_id": result.Expense.ID, "next_due": result.NextDue})

	c.JSON(http.StatusCreated, result)
}

// ProcessDueRecurringExpenses handles materializing every due occurrence of the user.
// @Summary     Process due recurring expenses
// @Description Run the recurring scan for the authenticated user. Per-item failures are reported, not raised.
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BatchResult "Batch result"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/process [post]
func (h *RecurringExpenseHandler) ProcessDueRecurringExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.recurringService.RunScheduledScanForUser(c.Request.Context(), userID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "PROCESS_DUE_RECURRING_EXPENSES", "recurring_expense", "", c.ClientIP(),
		map[string]interface{}{"succeeded": len(result.Succeeded), "failed": len(result.Failed)})

	c.JSON(http.StatusOK, result)
}

// GetUpcoming handles listing recurring expenses due soon.
// @Summary     Upcoming recurring expenses
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Window in days (default 30, max 365)"
// @Success     200 {array}  models.RecurringExpense "Upcoming recurring expenses"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Router      /recurring/upcoming [get]
func (h *RecurringExpenseHandler) GetUpcoming(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days := services.DefaultUpcomingDays
	if v := c.Query("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be an integer"))
			return
		}
	}

	schedules, err := h.recurringService.GetUpcoming(c.Request.Context(), userID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expenses": schedules, "days": days})
}

// PreviewNextDue handles computing a next due date without saving anything.
// @Summary     Preview next due date
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PreviewNextDueRequest true "Cycle to preview"
// @Success     200 {object} map[string]interface{} "Next due date and optional next_dates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /recurring/preview [post]
func (h *RecurringExpenseHandler) PreviewNextDue(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req PreviewNextDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	from := h.now()
	if req.From != nil {
		from = *req.From
	}

	next, err := h.recurringService.PreviewNextDue(req.Frequency, req.CycleDetails, from)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := gin.H{"next_due": next}
	if req.Count > 0 {
		dates, err := h.recurringService.PreviewOccurrences(req.Frequency, req.CycleDetails, from, req.Count)
		if err != nil {
			respondWithError(c, err)
			return
		}
		resp["next_dates"] = dates
	}

	c.JSON(http.StatusOK, resp)
}
