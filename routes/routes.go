package routes

import (
	"github.com/gin-gonic/gin"

	"classhub/auth"
	"classhub/handlers"
)

// SetupRoutes configures the API routes
func SetupRoutes(r *gin.Engine) {
	// Public routes
	r.POST("/api/auth/register", handlers.RegisterHandler)
	r.POST("/api/auth/login", auth.LoginHandler)

	// Protected routes
	protected := r.Group("/api")
	protected.Use(auth.AuthMiddleware())

	// User routes
	protected.GET("/auth/profile", handlers.GetProfileHandler)
	protected.PUT("/auth/profile", handlers.UpdateProfileHandler)
	protected.GET("/auth/check", handlers.CheckAuthHandler)

	// Class routes
	protected.POST("/class", auth.TeacherOnly(), handlers.CreateClassHandler)
	protected.GET("/class/teacher", auth.TeacherOnly(), handlers.GetTeacherClassesHandler)
	protected.GET("/class/student", auth.StudentOnly(), handlers.GetStudentClassesHandler)
	protected.GET("/class/:classId", handlers.GetClassByIDHandler)
	protected.POST("/class/:classId/enroll", auth.StudentOnly(), handlers.EnrollStudentHandler)

	// Assignment routes
	protected.POST("/assignment", auth.TeacherOnly(), handlers.CreateAssignmentHandler)
	protected.GET("/assignment/teacher", auth.TeacherOnly(), handlers.GetTeacherAssignmentsHandler)
	protected.GET("/assignment/student", auth.StudentOnly(), handlers.GetStudentAssignmentsHandler)
	protected.POST("/assignment/:assignmentId/submit", auth.StudentOnly(), handlers.SubmitAssignmentHandler)

	// Quiz routes
	protected.POST("/quiz", auth.TeacherOnly(), handlers.CreateQuizHandler)
	protected.GET("/quiz/teacher/quizzes", auth.TeacherOnly(), handlers.GetTeacherQuizzesHandler)
	protected.GET("/quiz/student/available-quizzes", auth.StudentOnly(), handlers.GetAvailableQuizzesHandler)
	protected.GET("/quiz/student/quizzes", auth.StudentOnly(), handlers.GetStudentQuizzesHandler)
	protected.GET("/quiz/student/:quizId", auth.StudentOnly(), handlers.GetQuizByIDHandler)
	protected.GET("/quiz/:quizId", auth.TeacherOnly(), handlers.GetQuizByIDHandler)
	protected.PUT("/quiz/:quizId", auth.TeacherOnly(), handlers.UpdateQuizHandler)
	protected.DELETE("/quiz/:quizId", auth.TeacherOnly(), handlers.DeleteQuizHandler)
	protected.POST("/quiz/:quizId/submit", auth.StudentOnly(), handlers.SubmitQuizHandler)

	// Dashboard routes
	protected.GET("/dashboard/teacher", auth.TeacherOnly(), handlers.GetTeacherDashboardHandler)
	protected.GET("/dashboard/student", auth.StudentOnly(), handlers.GetStudentDashboardHandler)
}
