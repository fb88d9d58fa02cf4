package grading

import (
	"sort"
	"time"

	"classhub/models"
)

// SubmissionRate is the share of possible submissions actually made, as a
// two-decimal percentage. The caller supplies the denominator independently
// (typically enrolled-student count times assignment count). 0 when nothing
// was possible.
func SubmissionRate(submitted, possible int) float64 {
	if possible == 0 {
		return 0
	}
	return round2(float64(submitted) / float64(possible) * 100)
}

// OnTimeRate is the share of submissions made on or before their assignment's
// due date, across all assignments. 0 when there are no submissions.
func OnTimeRate(assignments []models.Assignment) float64 {
	onTime, total := 0, 0
	for _, a := range assignments {
		for _, sub := range a.Submissions {
			total++
			if !sub.SubmittedAt.After(a.DueDate) {
				onTime++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return round2(float64(onTime) / float64(total) * 100)
}

// AverageQuizScore is the mean of the stored percentages across submissions,
// rounded to two decimals. 0 when the list is empty.
func AverageQuizScore(submissions []models.QuizSubmission) float64 {
	if len(submissions) == 0 {
		return 0
	}
	sum := 0.0
	for _, sub := range submissions {
		sum += sub.Percentage
	}
	return round2(sum / float64(len(submissions)))
}

// ParticipationRate is the number of quiz submissions relative to the number
// of quizzes, as a two-decimal percentage. 0 when there are no quizzes.
func ParticipationRate(quizCount, submissionCount int) float64 {
	if quizCount == 0 {
		return 0
	}
	return round2(float64(submissionCount) / float64(quizCount) * 100)
}

// Recent returns up to limit items sorted by submission time, newest first.
// The sort is stable so items sharing a timestamp keep their original order.
func Recent[T any](items []T, at func(T) time.Time, limit int) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return at(sorted[i]).After(at(sorted[j]))
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
