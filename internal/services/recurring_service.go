package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
	"budgettracker/internal/recurrence"
	"budgettracker/internal/repository"
)

// Stages at which materializing one schedule can fail.
const (
	StageResolveCategory = "resolve_category"
	StageCreateExpense   = "create_expense"
	StageAdvanceSchedule = "advance_schedule"
	StagePersistSchedule = "persist_schedule"
)

// Upcoming window bounds, in days.
const (
	DefaultUpcomingDays = 30
	MaxUpcomingDays     = 365
)

// MaxPreviewOccurrences caps how many dates a preview may list.
const MaxPreviewOccurrences = 24

// Defaults applied to new schedules when the caller omits a field.
const (
	defaultFrequency    = recurrence.FrequencyMonthly
	defaultReminderDays = 1
)

// MaterializationError describes a failure to materialize one schedule.
type MaterializationError struct {
	ScheduleID string
	Title      string
	Stage      string
	Err        error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("materialize %q (%s): %s: %v", e.Title, e.ScheduleID, e.Stage, e.Err)
}

func (e *MaterializationError) Unwrap() error { return e.Err }

// MaterializedOccurrence is a successful entry of a BatchResult.
type MaterializedOccurrence struct {
	ScheduleID string          `json:"schedule_id"`
	Title      string          `json:"title"`
	ExpenseID  string          `json:"expense_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	NextDue    time.Time       `json:"next_due"`
	// Reused is set when an expense for this occurrence already existed and
	// the schedule was only advanced.
	Reused bool `json:"reused,omitempty"`
}

// MaterializationFailure is a failed entry of a BatchResult.
type MaterializationFailure struct {
	ScheduleID string `json:"schedule_id"`
	Title      string `json:"title"`
	Stage      string `json:"stage"`
	Reason     string `json:"reason"`
}

// BatchResult collects the outcome of one scan.
type BatchResult struct {
	ProcessedAt time.Time                `json:"processed_at"`
	Succeeded   []MaterializedOccurrence `json:"succeeded"`
	Failed      []MaterializationFailure `json:"failed"`
}

// HasFailures reports whether any schedule in the batch failed.
func (r *BatchResult) HasFailures() bool { return len(r.Failed) > 0 }

// ManualMaterialization is the result of MaterializeOne.
type ManualMaterialization struct {
	Expense *models.Expense `json:"expense"`
	NextDue time.Time       `json:"next_due"`
}

// RecurringServiceOption configures the recurring expense service.
type RecurringServiceOption func(*recurringExpenseService)

// WithClock overrides the time source used when callers do not pass now.
func WithClock(now func() time.Time) RecurringServiceOption {
	return func(s *recurringExpenseService) { s.now = now }
}

// WithPublisher sets the publisher notified after each materialization.
func WithPublisher(p events.Publisher) RecurringServiceOption {
	return func(s *recurringExpenseService) { s.publisher = p }
}

// recurringExpenseService handles recurring expense business logic.
type recurringExpenseService struct {
	store     repository.Store
	publisher events.Publisher
	now       func() time.Time

	// mu serializes scans and manual materializations so two triggers never
	// materialize the same due cycle twice.
	mu sync.Mutex
}

// NewRecurringExpenseService creates a new RecurringExpenseServicer.
func NewRecurringExpenseService(store repository.Store, opts ...RecurringServiceOption) RecurringExpenseServicer {
	s := &recurringExpenseService{
		store:     store,
		publisher: events.NewNopPublisher(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PreviewNextDue computes the next due date without touching any state.
func (s *recurringExpenseService) PreviewNextDue(freq recurrence.Frequency, cd recurrence.CycleDetails, from time.Time) (time.Time, error) {
	next, err := recurrence.NextDue(freq, cd, from)
	if err != nil {
		return time.Time{}, apperrors.WithField(apperrors.ErrValidation, "frequency", err.Error())
	}
	return next, nil
}

// PreviewOccurrences lists the next count due dates after from.
func (s *recurringExpenseService) PreviewOccurrences(freq recurrence.Frequency, cd recurrence.CycleDetails, from time.Time, count int) ([]time.Time, error) {
	if count < 1 || count > MaxPreviewOccurrences {
		return nil, apperrors.WithField(apperrors.ErrValidation, "count", fmt.Sprintf("must be between 1 and %d", MaxPreviewOccurrences))
	}
	dates, err := recurrence.Occurrences(freq, cd, from, time.Time{}, count)
	if err != nil {
		return nil, apperrors.WithField(apperrors.ErrValidation, "frequency", err.Error())
	}
	return dates, nil
}

// DeriveStatus reports the schedule status as of now.
func (s *recurringExpenseService) DeriveStatus(schedule *models.RecurringExpense, now time.Time) recurrence.Status {
	return schedule.DeriveStatus(now)
}

// UpsertRecurringExpense creates a schedule when id is empty and updates it
// otherwise. Input is validated before anything is written.
func (s *recurringExpenseService) UpsertRecurringExpense(ctx context.Context, userID, id string, input RecurringExpenseInput) (*models.RecurringExpense, error) {
	now := s.now()

	var schedule *models.RecurringExpense
	if id == "" {
		schedule = &models.RecurringExpense{
			UserID:       userID,
			Frequency:    defaultFrequency,
			StartDate:    now,
			Active:       true,
			AutoCreate:   true,
			ReminderDays: defaultReminderDays,
		}
	} else {
		existing, err := s.findSchedule(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		schedule = existing
	}

	prevFrequency, prevStart, prevCycle := schedule.Frequency, schedule.StartDate, schedule.CycleDetails
	prevCategoryID := schedule.CategoryID
	input.apply(schedule)

	if err := recurrence.Validate(schedule.Definition()); err != nil {
		return nil, validationError(err)
	}
	if schedule.CategoryID == "" {
		return nil, apperrors.WithField(apperrors.ErrValidation, "category_id", "is required")
	}

	category := schedule.Category
	if id == "" || schedule.CategoryID != prevCategoryID {
		found, err := s.store.Categories().FindByID(ctx, userID, schedule.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		category = found
	}

	cycleChanged := schedule.Frequency != prevFrequency ||
		!schedule.StartDate.Equal(prevStart) ||
		!schedule.CycleDetails.Equal(prevCycle)
	if id == "" || cycleChanged {
		next, err := recurrence.NextDue(schedule.Frequency, schedule.CycleDetails, schedule.StartDate)
		if err != nil {
			return nil, validationError(err)
		}
		schedule.NextDue = next
	}

	if err := s.store.Schedules().Save(ctx, schedule); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	schedule.Category = category
	schedule.Annotate(now)
	return schedule, nil
}

// GetRecurringExpense returns one schedule with its ledger and derived status.
func (s *recurringExpenseService) GetRecurringExpense(ctx context.Context, userID, id string) (*models.RecurringExpense, error) {
	schedule, err := s.findSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	schedule.Annotate(s.now())
	return schedule, nil
}

// ListRecurringExpenses returns the user's schedules ordered by next due date.
func (s *recurringExpenseService) ListRecurringExpenses(ctx context.Context, userID string, filter repository.ScheduleFilter) ([]models.RecurringExpense, error) {
	schedules, err := s.store.Schedules().List(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return annotateAll(schedules, s.now()), nil
}

// GetUpcoming returns active schedules falling due within the next days days.
func (s *recurringExpenseService) GetUpcoming(ctx context.Context, userID string, days int) ([]models.RecurringExpense, error) {
	if days < 1 || days > MaxUpcomingDays {
		return nil, apperrors.WithField(apperrors.ErrValidation, "days", fmt.Sprintf("must be between 1 and %d", MaxUpcomingDays))
	}

	now := s.now()
	schedules, err := s.store.Schedules().Upcoming(ctx, userID, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return annotateAll(schedules, now), nil
}

// DeleteRecurringExpense soft-deletes a schedule. Expenses it already
// produced are kept.
func (s *recurringExpenseService) DeleteRecurringExpense(ctx context.Context, userID, id string) error {
	schedule, err := s.findSchedule(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.Schedules().Delete(ctx, schedule); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ToggleRecurringExpense flips the active flag. NextDue is left as is.
func (s *recurringExpenseService) ToggleRecurringExpense(ctx context.Context, userID, id string) (*models.RecurringExpense, error) {
	schedule, err := s.findSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	schedule.Active = !schedule.Active
	if err := s.store.Schedules().Save(ctx, schedule); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	schedule.Annotate(s.now())
	return schedule, nil
}

// RunScheduledScan materializes one occurrence of every eligible schedule.
func (s *recurringExpenseService) RunScheduledScan(ctx context.Context, now time.Time) (*BatchResult, error) {
	return s.scan(ctx, "", now)
}

// RunScheduledScanForUser runs the same scan restricted to one user.
func (s *recurringExpenseService) RunScheduledScanForUser(ctx context.Context, userID string, now time.Time) (*BatchResult, error) {
	return s.scan(ctx, userID, now)
}

// scan loads the eligible set once and materializes each schedule in its own
// transaction. Per-schedule failures are recorded and never stop the batch;
// only failing to load the eligible set is returned as an error.
func (s *recurringExpenseService) scan(ctx context.Context, userID string, now time.Time) (*BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Named("recurring")

	schedules, err := s.store.Schedules().FindEligible(ctx, now, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &BatchResult{
		ProcessedAt: now,
		Succeeded:   []MaterializedOccurrence{},
		Failed:      []MaterializationFailure{},
	}

	for i := range schedules {
		schedule := &schedules[i]

		occurrence, _, err := s.materialize(ctx, schedule, schedule.NextDue, now, false)
		if err != nil {
			failure := toFailure(schedule, err)
			log.Warnw("failed to materialize recurring expense",
				"schedule_id", failure.ScheduleID,
				"title", failure.Title,
				"stage", failure.Stage,
				"error", failure.Reason,
			)
			result.Failed = append(result.Failed, failure)
			continue
		}

		result.Succeeded = append(result.Succeeded, *occurrence)
		if !occurrence.Reused {
			s.publish(ctx, schedule.UserID, occurrence, false)
		}
	}

	log.Infow("recurring scan finished",
		"user_id", userID,
		"eligible", len(schedules),
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
	)
	return result, nil
}

// MaterializeOne creates an expense for one schedule on effectiveDate, or now
// when effectiveDate is nil, and advances NextDue from that date.
func (s *recurringExpenseService) MaterializeOne(ctx context.Context, userID, id string, effectiveDate *time.Time) (*ManualMaterialization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	schedule, err := s.findSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !schedule.Active {
		return nil, apperrors.ErrRecurringExpenseInactive
	}

	date := now
	if effectiveDate != nil {
		date = *effectiveDate
	}
	if schedule.EndedBy(date) {
		return nil, apperrors.ErrRecurringExpenseEnded
	}

	occurrence, expense, err := s.materialize(ctx, schedule, date, now, true)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		var matErr *MaterializationError
		if errors.As(err, &matErr) && matErr.Stage == StageResolveCategory && errors.Is(matErr.Err, repository.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrMaterializationFailed, err)
	}

	s.publish(ctx, userID, occurrence, true)
	return &ManualMaterialization{Expense: expense, NextDue: occurrence.NextDue}, nil
}

// materialize performs create-expense, append-ledger and advance-schedule for
// one occurrence inside a single transaction. The schedule is only updated in
// memory once the transaction commits.
//
// An expense already recorded for the same schedule and date is reused by
// scans so a retried cycle never produces a duplicate; manual requests get
// ErrOccurrenceAlreadyCreated instead.
func (s *recurringExpenseService) materialize(ctx context.Context, schedule *models.RecurringExpense, date, now time.Time, manual bool) (*MaterializedOccurrence, *models.Expense, error) {
	working := *schedule
	working.CreatedExpenses = append([]models.RecurringExpenseEntry(nil), schedule.CreatedExpenses...)

	fail := func(stage string, err error) error {
		return &MaterializationError{ScheduleID: schedule.ID, Title: schedule.Title, Stage: stage, Err: err}
	}

	var expense *models.Expense
	reused := false

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		category, err := tx.Categories().FindByID(ctx, working.UserID, working.CategoryID)
		if err != nil {
			return fail(StageResolveCategory, err)
		}

		existing, err := tx.Expenses().FindOccurrence(ctx, working.ID, date)
		switch {
		case err == nil && manual:
			return apperrors.ErrOccurrenceAlreadyCreated
		case err == nil:
			expense, reused = existing, true
		case errors.Is(err, repository.ErrNotFound):
			scheduleID := working.ID
			expense = &models.Expense{
				UserID:             working.UserID,
				CategoryID:         working.CategoryID,
				Amount:             working.Amount,
				Date:               date,
				Remarks:            working.Title + " (Recurring)",
				PaymentMethod:      models.PaymentMethodCard,
				Tags:               working.Tags,
				IsRecurring:        true,
				RecurringExpenseID: &scheduleID,
			}
			if err := tx.Expenses().Create(ctx, expense); err != nil {
				return fail(StageCreateExpense, err)
			}
			working.CreatedExpenses = append(working.CreatedExpenses, models.RecurringExpenseEntry{
				ExpenseID:   expense.ID,
				DateCreated: now,
				Amount:      working.Amount,
			})
		default:
			return fail(StageCreateExpense, err)
		}
		expense.Category = category

		processed := now
		working.LastProcessedDate = &processed

		next, err := recurrence.NextDue(working.Frequency, working.CycleDetails, date)
		if err != nil {
			return fail(StageAdvanceSchedule, err)
		}
		working.NextDue = next

		if err := tx.Schedules().Save(ctx, &working); err != nil {
			return fail(StagePersistSchedule, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	*schedule = working
	return &MaterializedOccurrence{
		ScheduleID: schedule.ID,
		Title:      schedule.Title,
		ExpenseID:  expense.ID,
		Amount:     expense.Amount,
		Date:       date,
		NextDue:    schedule.NextDue,
		Reused:     reused,
	}, expense, nil
}

func (s *recurringExpenseService) publish(ctx context.Context, userID string, occurrence *MaterializedOccurrence, manual bool) {
	event := events.RecurringMaterialized{
		ScheduleID:  occurrence.ScheduleID,
		UserID:      userID,
		ExpenseID:   occurrence.ExpenseID,
		Title:       occurrence.Title,
		Amount:      occurrence.Amount,
		Date:        occurrence.Date,
		NextDue:     occurrence.NextDue,
		Manual:      manual,
		PublishedAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Named("recurring").Warnw("failed to publish materialization event",
			"schedule_id", occurrence.ScheduleID,
			"expense_id", occurrence.ExpenseID,
			"error", err,
		)
	}
}

func (s *recurringExpenseService) findSchedule(ctx context.Context, userID, id string) (*models.RecurringExpense, error) {
	schedule, err := s.store.Schedules().FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrRecurringExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return schedule, nil
}

func (in RecurringExpenseInput) apply(r *models.RecurringExpense) {
	if in.CategoryID != nil {
		r.CategoryID = *in.CategoryID
	}
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Amount != nil {
		r.Amount = *in.Amount
	}
	if in.Frequency != nil {
		r.Frequency = *in.Frequency
	}
	if in.CycleDetails != nil {
		r.CycleDetails = *in.CycleDetails
	}
	if in.StartDate != nil {
		r.StartDate = *in.StartDate
	}
	if in.ClearEndDate {
		r.EndDate = nil
	} else if in.EndDate != nil {
		end := *in.EndDate
		r.EndDate = &end
	}
	if in.Active != nil {
		r.Active = *in.Active
	}
	if in.AutoCreate != nil {
		r.AutoCreate = *in.AutoCreate
	}
	if in.ReminderDays != nil {
		r.ReminderDays = *in.ReminderDays
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.Tags != nil {
		tags := make([]string, 0, len(in.Tags))
		for _, tag := range in.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		r.Tags = tags
	}
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErr *recurrence.FieldError
	if errors.As(err, &fieldErr) {
		return apperrors.WithField(apperrors.ErrValidation, fieldErr.Field, fieldErr.Reason)
	}
	return apperrors.Wrap(apperrors.ErrValidation, err)
}

func toFailure(schedule *models.RecurringExpense, err error) MaterializationFailure {
	failure := MaterializationFailure{
		ScheduleID: schedule.ID,
		Title:      schedule.Title,
		Stage:      StagePersistSchedule,
		Reason:     err.Error(),
	}
	var matErr *MaterializationError
	if errors.As(err, &matErr) {
		failure.Stage = matErr.Stage
		failure.Reason = matErr.Err.Error()
	}
	return failure
}

func annotateAll(schedules []models.RecurringExpense, now time.Time) []models.RecurringExpense {
	if schedules == nil {
		return []models.RecurringExpense{}
	}
	for i := range schedules {
		schedules[i].Annotate(now)
	}
	return schedules
}
