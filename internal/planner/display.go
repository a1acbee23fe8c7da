package planner

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/yukikurage/study-planner-api/internal/dto"
)

const day = 24 * time.Hour

// SortForDisplay orders tasks incomplete first, then by ascending due date.
// Ties keep their incoming order.
func SortForDisplay(tasks []dto.TaskDTO) {
	slices.SortStableFunc(tasks, func(a, b dto.TaskDTO) int {
		if a.IsCompleted != b.IsCompleted {
			if a.IsCompleted {
				return 1
			}
			return -1
		}
		return a.DueDate.Compare(b.DueDate)
	})
}

// DaysUntilDue returns the whole number of days from local midnight of now
// to due, rounded up. A due date stored as a calendar date (UTC midnight)
// is compared by calendar day in now's location.
func DaysUntilDue(due, now time.Time) int {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if isCalendarDate(due) {
		u := due.UTC()
		dueDay := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, loc)
		// DST shifts make a calendar day 23 or 25 hours long
		return int(math.Round(dueDay.Sub(today).Hours() / 24))
	}

	return int(math.Ceil(float64(due.Sub(today)) / float64(day)))
}

func isCalendarDate(t time.Time) bool {
	u := t.UTC()
	return u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0
}

// UrgencyLabel describes a task's due-date status relative to now
func UrgencyLabel(task dto.TaskDTO, now time.Time) string {
	if task.IsCompleted {
		return "Completed"
	}

	days := DaysUntilDue(task.DueDate, now)
	switch {
	case days < 0:
		return fmt.Sprintf("Overdue (%d days)", -days)
	case days == 0:
		return "Due Today"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}
