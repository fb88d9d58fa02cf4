package grading

import "time"

// Status of an assignment or quiz from one student's point of view.
// Derived on every read, never stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusOverdue   Status = "overdue"
)

// DeriveStatus computes the status of a due-dated item. A submission always
// wins over the deadline; only unsubmitted items past due are overdue.
func DeriveStatus(dueDate, now time.Time, hasSubmission bool) Status {
	if hasSubmission {
		return StatusSubmitted
	}
	if now.After(dueDate) {
		return StatusOverdue
	}
	return StatusPending
}

// IsLate reports whether a submission landed strictly after the due date.
// Independent of status: a submitted item can still be late. Always false
// when no submission exists.
func IsLate(submittedAt *time.Time, dueDate time.Time) bool {
	if submittedAt == nil {
		return false
	}
	return submittedAt.After(dueDate)
}

// Summary holds the counts of a categorized collection
type Summary struct {
	Total           int `json:"total"`
	Submitted       int `json:"submitted"`
	Pending         int `json:"pending"`
	Overdue         int `json:"overdue"`
	LateSubmissions int `json:"lateSubmissions"`
}

// Categorized partitions a collection by status; every item lands in exactly
// one of the three lists.
type Categorized[T any] struct {
	Submitted []T     `json:"submitted"`
	Pending   []T     `json:"pending"`
	Overdue   []T     `json:"overdue"`
	Summary   Summary `json:"summary"`
}

// Categorize splits items into submitted/pending/overdue using the supplied
// accessors and tallies the summary counts. The empty lists are allocated so
// they serialize as [] rather than null.
func Categorize[T any](items []T, status func(T) Status, late func(T) bool) Categorized[T] {
	result := Categorized[T]{
		Submitted: []T{},
		Pending:   []T{},
		Overdue:   []T{},
	}
	for _, item := range items {
		switch status(item) {
		case StatusSubmitted:
			result.Submitted = append(result.Submitted, item)
		case StatusOverdue:
			result.Overdue = append(result.Overdue, item)
		default:
			result.Pending = append(result.Pending, item)
		}
		if late(item) {
			result.Summary.LateSubmissions++
		}
	}
	result.Summary.Total = len(items)
	result.Summary.Submitted = len(result.Submitted)
	result.Summary.Pending = len(result.Pending)
	result.Summary.Overdue = len(result.Overdue)
	return result
}
