package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClassIsFull(t *testing.T) {
	class := Class{
		MaxStudents: 2,
		Students:    []primitive.ObjectID{primitive.NewObjectID()},
	}
	assert.False(t, class.IsFull())

	class.Students = append(class.Students, primitive.NewObjectID())
	assert.True(t, class.IsFull())
}

func TestClassIsStudentEnrolled(t *testing.T) {
	enrolled := primitive.NewObjectID()
	class := Class{Students: []primitive.ObjectID{enrolled}}

	assert.True(t, class.IsStudentEnrolled(enrolled))
	assert.False(t, class.IsStudentEnrolled(primitive.NewObjectID()))
}

func TestAssignmentSubmissionFor(t *testing.T) {
	student := primitive.NewObjectID()
	other := primitive.NewObjectID()
	assignment := Assignment{
		Submissions: []AssignmentSubmission{
			{Student: other, SubmissionFile: "other.pdf", SubmittedAt: time.Now()},
			{Student: student, SubmissionFile: "mine.pdf", SubmittedAt: time.Now()},
		},
	}

	sub := assignment.SubmissionFor(student)
	assert.NotNil(t, sub)
	assert.Equal(t, "mine.pdf", sub.SubmissionFile)

	assert.Nil(t, assignment.SubmissionFor(primitive.NewObjectID()))
}
