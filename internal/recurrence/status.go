package recurrence

import (
	"math"
	"time"
)

// Status is the derived state of a recurring expense relative to now.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusOverdue   Status = "overdue"
	StatusDueToday  Status = "due_today"
	StatusReminder  Status = "reminder"
	StatusScheduled Status = "scheduled"
)

// DaysUntilDue is the ceiling of the day difference between nextDue and now.
// Partial days round up, so a due time a few hours in the past reports 0
// rather than -1.
func DaysUntilDue(nextDue, now time.Time) int {
	days := nextDue.Sub(now).Hours() / 24
	return int(math.Ceil(days))
}

// DeriveStatus checks, in order: inactive, overdue, due today, inside the
// reminder window, otherwise scheduled.
func DeriveStatus(active bool, nextDue time.Time, reminderDays int, now time.Time) Status {
	if !active {
		return StatusInactive
	}

	days := DaysUntilDue(nextDue, now)
	switch {
	case days < 0:
		return StatusOverdue
	case days == 0:
		return StatusDueToday
	case days <= reminderDays:
		return StatusReminder
	default:
		return StatusScheduled
	}
}
