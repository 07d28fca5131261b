package app

import (
	"testing"
	"time"

	"github.com/harperreed/fomo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []models.Record) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.ID())
	}
	return out
}

func TestFilterTasks(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	tasks := []models.Record{
		{"id": "done", "text": "Paid rent", "done": true, "dueDate": "2024-03-01"},
		{"id": "late", "text": "Call plumber", "dueDate": "2024-03-09"},
		{"id": "today", "text": "Buy milk", "dueDate": "2024-03-10", "favorite": true},
		{"id": "week", "text": "Dentist", "dueDate": "2024-03-17", "starred": true},
		{"id": "later", "text": "Taxes", "dueDate": "2024-03-18"},
		{"id": "nodate", "text": "Read MILK labels", "dueDate": nil},
	}

	tests := []struct {
		name    string
		filters []Filter
		query   string
		want    []string
	}{
		{"none", nil, "", []string{"done", "late", "today", "week", "later", "nodate"}},
		{"completed", []Filter{FilterCompleted}, "", []string{"done"}},
		{"overdue includes done", []Filter{FilterOverdue}, "", []string{"done", "late"}},
		{"upcoming", []Filter{FilterUpcoming}, "", []string{"today", "week"}},
		{"starred", []Filter{FilterStarred}, "", []string{"today", "week"}},
		{"conjunctive", []Filter{FilterStarred, FilterUpcoming}, "dent", []string{"week"}},
		{"query case-insensitive", nil, "  milk ", []string{"today", "nodate"}},
		{"nothing", []Filter{FilterCompleted, FilterUpcoming}, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterTasks(tasks, tt.filters, tt.query, now)))
		})
	}
}

func TestFilterTasksBadDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	tasks := []models.Record{{"id": "x", "dueDate": "someday"}}
	assert.Empty(t, FilterTasks(tasks, []Filter{FilterOverdue}, "", now))
}

func TestParseFilters(t *testing.T) {
	got, err := ParseFilters([]string{"overdue", "", "starred"})
	require.NoError(t, err)
	assert.Equal(t, []Filter{FilterOverdue, FilterStarred}, got)

	_, err = ParseFilters([]string{"urgent"})
	assert.Error(t, err)
}
