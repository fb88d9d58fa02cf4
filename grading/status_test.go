package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var due = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name          string
		now           time.Time
		hasSubmission bool
		want          Status
	}{
		{"before due, no submission", due.Add(-24 * time.Hour), false, StatusPending},
		{"after due, no submission", due.Add(24 * time.Hour), false, StatusOverdue},
		{"before due, submitted", due.Add(-24 * time.Hour), true, StatusSubmitted},
		{"after due, submitted", due.Add(24 * time.Hour), true, StatusSubmitted},
		{"exactly at due, no submission", due, false, StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(due, tt.now, tt.hasSubmission))
		})
	}
}

func TestIsLate(t *testing.T) {
	early := due.Add(-12 * time.Hour)
	late := due.Add(24 * time.Hour)

	assert.False(t, IsLate(nil, due), "no submission is never late")
	assert.False(t, IsLate(&early, due))
	assert.False(t, IsLate(&due, due), "exactly on time is not late")
	assert.True(t, IsLate(&late, due))
}

func TestSubmittedLateItem(t *testing.T) {
	// A submission past the due date is still "submitted", just flagged late
	late := due.Add(24 * time.Hour)
	assert.Equal(t, StatusSubmitted, DeriveStatus(due, late, true))
	assert.True(t, IsLate(&late, due))
}

type statusItem struct {
	name   string
	status Status
	late   bool
}

func TestCategorize(t *testing.T) {
	items := []statusItem{
		{"a", StatusSubmitted, false},
		{"b", StatusPending, false},
		{"c", StatusOverdue, false},
		{"d", StatusSubmitted, true},
		{"e", StatusOverdue, false},
	}

	got := Categorize(items,
		func(i statusItem) Status { return i.status },
		func(i statusItem) bool { return i.late },
	)

	assert.Len(t, got.Submitted, 2)
	assert.Len(t, got.Pending, 1)
	assert.Len(t, got.Overdue, 2)
	assert.Equal(t, Summary{Total: 5, Submitted: 2, Pending: 1, Overdue: 2, LateSubmissions: 1}, got.Summary)

	// Every item lands in exactly one bucket
	assert.Equal(t, len(items), len(got.Submitted)+len(got.Pending)+len(got.Overdue))
}

func TestCategorizeEmpty(t *testing.T) {
	got := Categorize(nil,
		func(i statusItem) Status { return i.status },
		func(i statusItem) bool { return i.late },
	)

	assert.NotNil(t, got.Submitted)
	assert.NotNil(t, got.Pending)
	assert.NotNil(t, got.Overdue)
	assert.Equal(t, Summary{}, got.Summary)
}
