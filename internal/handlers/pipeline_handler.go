package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"budgettracker/internal/services"
)

// PipelineHandler serves endpoints called by external schedulers.
type PipelineHandler struct {
	recurringService services.RecurringExpenseServicer
	now              func() time.Time
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(recurringService services.RecurringExpenseServicer) *PipelineHandler {
	return &PipelineHandler{recurringService: recurringService, now: time.Now}
}

// ProcessRecurring runs the recurring scan for every user.
// @Summary     Process due recurring expenses for all users
// @Description Materialize every due recurring expense (pipeline endpoint)
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header   string              true "Pipeline API key"
// @Success     200       {object} services.BatchResult "Batch result"
// @Failure     401       {object} ErrorResponse        "Invalid API key"
// @Failure     500       {object} ErrorResponse        "Server error"
// @Failure     503       {object} ErrorResponse        "Pipeline not configured"
// @Router      /pipeline/recurring/process [post]
func (h *PipelineHandler) ProcessRecurring(c *gin.Context) {
	result, err := h.recurringService.RunScheduledScan(c.Request.Context(), h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
