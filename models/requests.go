package models

import "time"

// LoginRequest for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest for user registration
type RegisterRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required,oneof=teacher student"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phoneNumber"`
	StudentID   string `json:"studentId"`   // required for students
	YearOfStudy string `json:"yearOfStudy"` // required for students
	TeacherID   string `json:"teacherId"`   // required for teachers
}

// UpdateProfileRequest for profile updates (multipart, photo handled separately)
type UpdateProfileRequest struct {
	FullName    string `form:"fullName"`
	Department  string `form:"department"`
	PhoneNumber string `form:"phoneNumber"`
	StudentID   string `form:"studentId"`
	YearOfStudy string `form:"yearOfStudy"`
	TeacherID   string `form:"teacherId"`
}

// CreateClassRequest for class creation
type CreateClassRequest struct {
	ClassName    string         `json:"className" binding:"required"`
	CourseCode   string         `json:"courseCode" binding:"required"`
	Department   string         `json:"department" binding:"required"`
	Schedule     []ScheduleSlot `json:"schedule" binding:"dive"`
	Semester     string         `json:"semester" binding:"required"`
	AcademicYear string         `json:"academicYear" binding:"required"`
	Description  string         `json:"description"`
	MaxStudents  int            `json:"maxStudents"`
}

// CreateAssignmentRequest for assignment creation
type CreateAssignmentRequest struct {
	Title       string    `json:"title" binding:"required"`
	Subject     string    `json:"subject" binding:"required"`
	Description string    `json:"description" binding:"required"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
}

// OptionRequest is one answer choice in a quiz create/update payload
type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionRequest is one question in a quiz create/update payload
type QuestionRequest struct {
	QuestionText string          `json:"questionText" binding:"required"`
	Options      []OptionRequest `json:"options" binding:"required,min=2,dive"`
	Points       int             `json:"points" binding:"min=0"`
}

// CreateQuizRequest for quiz creation
type CreateQuizRequest struct {
	Title     string            `json:"title" binding:"required"`
	Subject   string            `json:"subject" binding:"required"`
	Duration  int               `json:"duration" binding:"required,min=1"`
	DueDate   time.Time         `json:"dueDate" binding:"required"`
	Status    string            `json:"status" binding:"omitempty,oneof=draft published completed"`
	Questions []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// UpdateQuizRequest for partial quiz updates; nil fields are left unchanged
type UpdateQuizRequest struct {
	Title     *string           `json:"title"`
	Subject   *string           `json:"subject"`
	Duration  *int              `json:"duration" binding:"omitempty,min=1"`
	DueDate   *time.Time        `json:"dueDate"`
	Status    *string           `json:"status" binding:"omitempty,oneof=draft published completed"`
	Questions []QuestionRequest `json:"questions" binding:"omitempty,min=1,dive"`
}

// AnswerRequest is one submitted answer
type AnswerRequest struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedOption string `json:"selectedOption" binding:"required"`
}

// SubmitQuizRequest for quiz submission
type SubmitQuizRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"required,dive"`
}

// EnrollRequest for class enrollment
type EnrollRequest struct {
	ClassID string `json:"classId" binding:"required"`
}
