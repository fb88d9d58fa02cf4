package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"classhub/models"
)

func TestSubmissionRate(t *testing.T) {
	assert.Equal(t, 0.00, SubmissionRate(0, 0), "empty input must not divide by zero")
	assert.Equal(t, 0.00, SubmissionRate(5, 0))
	assert.Equal(t, 50.00, SubmissionRate(3, 6))
	assert.Equal(t, 33.33, SubmissionRate(1, 3))
	assert.Equal(t, 100.00, SubmissionRate(4, 4))
}

func TestOnTimeRate(t *testing.T) {
	assignments := []models.Assignment{
		{
			DueDate: due,
			Submissions: []models.AssignmentSubmission{
				{SubmittedAt: due.Add(-time.Hour)}, // on time
				{SubmittedAt: due},                 // boundary counts as on time
				{SubmittedAt: due.Add(time.Hour)},  // late
			},
		},
		{
			DueDate: due.Add(48 * time.Hour),
			Submissions: []models.AssignmentSubmission{
				{SubmittedAt: due}, // on time
			},
		},
	}

	assert.Equal(t, 75.00, OnTimeRate(assignments))
}

func TestOnTimeRateEmpty(t *testing.T) {
	assert.Equal(t, 0.00, OnTimeRate(nil))
	assert.Equal(t, 0.00, OnTimeRate([]models.Assignment{{DueDate: due}}))
}

func TestAverageQuizScore(t *testing.T) {
	subs := []models.QuizSubmission{
		{Percentage: 100},
		{Percentage: 40},
		{Percentage: 70.5},
	}
	assert.Equal(t, 70.17, AverageQuizScore(subs))
	assert.Equal(t, 0.00, AverageQuizScore(nil))
}

func TestParticipationRate(t *testing.T) {
	assert.Equal(t, 0.00, ParticipationRate(0, 0))
	assert.Equal(t, 50.00, ParticipationRate(4, 2))
	assert.Equal(t, 100.00, ParticipationRate(3, 3))
}

func TestRecent(t *testing.T) {
	type sub struct {
		name string
		at   time.Time
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []sub{
		{"oldest", base},
		{"tie-first", base.Add(time.Hour)},
		{"tie-second", base.Add(time.Hour)},
		{"newest", base.Add(2 * time.Hour)},
	}

	got := Recent(items, func(s sub) time.Time { return s.at }, 3)

	assert.Len(t, got, 3)
	assert.Equal(t, "newest", got[0].name)
	// Stable sort: equal timestamps keep their original relative order
	assert.Equal(t, "tie-first", got[1].name)
	assert.Equal(t, "tie-second", got[2].name)
}

func TestRecentDoesNotMutateInput(t *testing.T) {
	type sub struct {
		name string
		at   time.Time
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []sub{
		{"first", base},
		{"second", base.Add(time.Hour)},
	}

	_ = Recent(items, func(s sub) time.Time { return s.at }, 1)

	assert.Equal(t, "first", items[0].name)
	assert.Equal(t, "second", items[1].name)
}

func TestRecentLimitLargerThanInput(t *testing.T) {
	type sub struct{ at time.Time }
	items := []sub{{time.Now()}}
	assert.Len(t, Recent(items, func(s sub) time.Time { return s.at }, 5), 1)
}
