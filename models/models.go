package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Quiz lifecycle statuses
const (
	QuizDraft     = "draft"
	QuizPublished = "published"
	QuizCompleted = "completed"
)

// User model
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName    string             `bson:"fullName" json:"fullName"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Role        string             `bson:"role" json:"role"`
	Department  string             `bson:"department,omitempty" json:"department,omitempty"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Photo       string             `bson:"photo,omitempty" json:"photo,omitempty"`
	StudentID   string             `bson:"studentId,omitempty" json:"studentId,omitempty"`
	YearOfStudy string             `bson:"yearOfStudy,omitempty" json:"yearOfStudy,omitempty"`
	TeacherID   string             `bson:"teacherId,omitempty" json:"teacherId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ScheduleSlot is one weekly meeting of a class
type ScheduleSlot struct {
	Day       string `bson:"day" json:"day"`
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
	Room      string `bson:"room" json:"room"`
}

// Class model
type Class struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ClassName    string               `bson:"className" json:"className"`
	CourseCode   string               `bson:"courseCode" json:"courseCode"`
	Department   string               `bson:"department" json:"department"`
	Teacher      primitive.ObjectID   `bson:"teacher" json:"teacher"`
	Students     []primitive.ObjectID `bson:"students" json:"students"`
	Schedule     []ScheduleSlot       `bson:"schedule" json:"schedule"`
	Semester     string               `bson:"semester" json:"semester"`
	AcademicYear string               `bson:"academicYear" json:"academicYear"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	MaxStudents  int                  `bson:"maxStudents" json:"maxStudents"`
	IsActive     bool                 `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsFull reports whether the roster has reached capacity
func (c *Class) IsFull() bool {
	return len(c.Students) >= c.MaxStudents
}

// IsStudentEnrolled reports whether the student is on the roster
func (c *Class) IsStudentEnrolled(studentID primitive.ObjectID) bool {
	for _, id := range c.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// AssignmentSubmission is one student's submission embedded in an assignment
type AssignmentSubmission struct {
	Student        primitive.ObjectID `bson:"student" json:"student"`
	SubmissionFile string             `bson:"submissionFile" json:"submissionFile"`
	SubmittedAt    time.Time          `bson:"submittedAt" json:"submittedAt"`
}

// Assignment model
type Assignment struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title       string                 `bson:"title" json:"title"`
	Subject     string                 `bson:"subject" json:"subject"`
	Description string                 `bson:"description" json:"description"`
	DueDate     time.Time              `bson:"dueDate" json:"dueDate"`
	CreatedBy   primitive.ObjectID     `bson:"createdBy" json:"createdBy"`
	Submissions []AssignmentSubmission `bson:"submissions" json:"submissions"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// SubmissionFor returns the student's submission, or nil when none exists
func (a *Assignment) SubmissionFor(studentID primitive.ObjectID) *AssignmentSubmission {
	for i := range a.Submissions {
		if a.Submissions[i].Student == studentID {
			return &a.Submissions[i]
		}
	}
	return nil
}

// Option is one answer choice of a question
type Option struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Text      string             `bson:"text" json:"text"`
	IsCorrect bool               `bson:"isCorrect" json:"isCorrect"`
}

// Question is one quiz question with its options
type Question struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	QuestionText string             `bson:"questionText" json:"questionText"`
	Options      []Option           `bson:"options" json:"options"`
	Points       int                `bson:"points" json:"points"`
}

// Quiz model
type Quiz struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Subject        string             `bson:"subject" json:"subject"`
	Duration       int                `bson:"duration" json:"duration"` // minutes
	DueDate        time.Time          `bson:"dueDate" json:"dueDate"`
	Questions      []Question         `bson:"questions" json:"questions"`
	CreatedBy      primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Status         string             `bson:"status" json:"status"`
	TotalQuestions int                `bson:"totalQuestions" json:"totalQuestions"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Answer is one (question, selected option) pair in a quiz submission
type Answer struct {
	QuestionID     primitive.ObjectID `bson:"questionId" json:"questionId"`
	SelectedOption primitive.ObjectID `bson:"selectedOption" json:"selectedOption"`
}

// QuizSubmission model. Score, totalScore and percentage are frozen at
// grading time so later quiz edits do not rewrite past results.
type QuizSubmission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Quiz        primitive.ObjectID `bson:"quiz" json:"quiz"`
	Student     primitive.ObjectID `bson:"student" json:"student"`
	Answers     []Answer           `bson:"answers" json:"answers"`
	Score       int                `bson:"score" json:"score"`
	TotalScore  int                `bson:"totalScore" json:"totalScore"`
	Percentage  float64            `bson:"percentage" json:"percentage"`
	Status      string             `bson:"status" json:"status"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
