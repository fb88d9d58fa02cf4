// Package grading holds the pure scoring, status and reporting logic shared
// by the assignment, quiz and dashboard handlers. Nothing here touches the
// database; callers fetch entities, apply these functions and persist the
// results themselves.
package grading

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"classhub/models"
)

type questionIndex struct {
	points  int
	correct map[primitive.ObjectID]bool
}

// Grade scores a set of submitted answers against a quiz. Each answer whose
// selected option is marked correct earns the question's full point value;
// everything else, including answers referencing unknown questions or
// options, earns zero. There is no partial credit and no penalty.
func Grade(quiz *models.Quiz, answers []models.Answer) int {
	index := make(map[primitive.ObjectID]questionIndex, len(quiz.Questions))
	for _, q := range quiz.Questions {
		correct := make(map[primitive.ObjectID]bool, len(q.Options))
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct[opt.ID] = true
			}
		}
		index[q.ID] = questionIndex{points: q.Points, correct: correct}
	}

	score := 0
	for _, answer := range answers {
		q, ok := index[answer.QuestionID]
		if !ok {
			continue
		}
		if q.correct[answer.SelectedOption] {
			score += q.points
		}
	}
	return score
}

// TotalPoints returns the maximum achievable score of a quiz
func TotalPoints(quiz *models.Quiz) int {
	total := 0
	for _, q := range quiz.Questions {
		total += q.Points
	}
	return total
}

// Percentage converts a score into a percentage of the total, rounded to two
// decimal places. A zero-point quiz yields 0 rather than dividing by zero.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(score) / float64(total) * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
