// ABOUTME: Task list filters: completed, overdue, upcoming, starred, and text search
// ABOUTME: Filters combine conjunctively; completed tasks show unless filtered
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fomo/models"
)

type Filter string

const (
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
	FilterUpcoming  Filter = "upcoming"
	FilterStarred   Filter = "starred"
)

// UpcomingDays is how far ahead the upcoming filter looks.
const UpcomingDays = 7

// ParseFilters validates filter names. Empty names are skipped.
func ParseFilters(names []string) ([]Filter, error) {
	var out []Filter
	for _, n := range names {
		switch f := Filter(strings.TrimSpace(n)); f {
		case "":
		case FilterCompleted, FilterOverdue, FilterUpcoming, FilterStarred:
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown filter %q", n)
		}
	}
	return out, nil
}

// FilterTasks returns the tasks matching every filter and the query. Dates
// are compared by calendar day in now's location.
func FilterTasks(tasks []models.Record, filters []Filter, query string, now time.Time) []models.Record {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, UpcomingDays)
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Record, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, filters, q, today, horizon) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t models.Record, filters []Filter, q string, today, horizon time.Time) bool {
	done := boolField(t, "done")
	due, hasDue := dueDate(t, today.Location())

	for _, f := range filters {
		switch f {
		case FilterCompleted:
			if !done {
				return false
			}
		case FilterOverdue:
			if !hasDue || !due.Before(today) {
				return false
			}
		case FilterUpcoming:
			if done || !hasDue || due.Before(today) || due.After(horizon) {
				return false
			}
		case FilterStarred:
			if !boolField(t, "starred") && !boolField(t, "favorite") {
				return false
			}
		}
	}

	if q != "" && !strings.Contains(strings.ToLower(stringField(t, "text")), q) {
		return false
	}
	return true
}

// dueDate parses a YYYY-MM-DD due date. Longer timestamps are cut to their
// date part.
func dueDate(t models.Record, loc *time.Location) (time.Time, bool) {
	s := stringField(t, "dueDate")
	if len(s) > 10 {
		s = s[:10]
	}
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
