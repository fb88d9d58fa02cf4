package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"classhub/models"
)

// twoQuestionQuiz builds a quiz worth 5 points: Q1 (2 pts) and Q2 (3 pts),
// each with one correct option out of two.
func twoQuestionQuiz() *models.Quiz {
	return &models.Quiz{
		ID:      primitive.NewObjectID(),
		Title:   "Midterm review",
		DueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Questions: []models.Question{
			{
				ID:     oid(1),
				Points: 2,
				Options: []models.Option{
					{ID: oid(11), Text: "wrong", IsCorrect: false},
					{ID: oid(12), Text: "right", IsCorrect: true},
				},
			},
			{
				ID:     oid(2),
				Points: 3,
				Options: []models.Option{
					{ID: oid(21), Text: "right", IsCorrect: true},
					{ID: oid(22), Text: "wrong", IsCorrect: false},
				},
			},
		},
	}
}

// oid derives a deterministic ObjectID from a small integer
func oid(n byte) primitive.ObjectID {
	var id primitive.ObjectID
	id[11] = n
	return id
}

func TestGradeAllCorrect(t *testing.T) {
	quiz := twoQuestionQuiz()
	answers := []models.Answer{
		{QuestionID: oid(1), SelectedOption: oid(12)},
		{QuestionID: oid(2), SelectedOption: oid(21)},
	}

	score := Grade(quiz, answers)
	assert.Equal(t, 5, score)
	assert.Equal(t, 5, TotalPoints(quiz))
	assert.Equal(t, 100.00, Percentage(score, TotalPoints(quiz)))
}

func TestGradePartiallyCorrect(t *testing.T) {
	quiz := twoQuestionQuiz()
	answers := []models.Answer{
		{QuestionID: oid(1), SelectedOption: oid(12)}, // correct, 2 pts
		{QuestionID: oid(2), SelectedOption: oid(22)}, // wrong
	}

	score := Grade(quiz, answers)
	assert.Equal(t, 2, score)
	assert.Equal(t, 40.00, Percentage(score, TotalPoints(quiz)))
}

func TestGradeEmptyAnswers(t *testing.T) {
	quiz := twoQuestionQuiz()
	assert.Equal(t, 0, Grade(quiz, nil))
	assert.Equal(t, 0, Grade(quiz, []models.Answer{}))
}

func TestGradeUnknownReferences(t *testing.T) {
	quiz := twoQuestionQuiz()
	answers := []models.Answer{
		{QuestionID: oid(99), SelectedOption: oid(12)}, // stale question id
		{QuestionID: oid(1), SelectedOption: oid(99)},  // stale option id
		{QuestionID: oid(2), SelectedOption: oid(21)},  // correct, 3 pts
	}

	// Stale references contribute zero instead of failing the grade
	assert.Equal(t, 3, Grade(quiz, answers))
}

func TestGradeIsDeterministic(t *testing.T) {
	quiz := twoQuestionQuiz()
	answers := []models.Answer{
		{QuestionID: oid(1), SelectedOption: oid(12)},
		{QuestionID: oid(2), SelectedOption: oid(21)},
	}

	first := Grade(quiz, answers)
	second := Grade(quiz, answers)
	assert.Equal(t, first, second)
}

func TestPercentageZeroPointQuiz(t *testing.T) {
	assert.Equal(t, 0.00, Percentage(0, 0))
	assert.Equal(t, 0.00, Percentage(5, 0))
}

func TestPercentageRounding(t *testing.T) {
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 50.00, Percentage(1, 2))
}
