package handlers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"classhub/db"
	"classhub/grading"
	"classhub/models"
)

// recentAssignmentSubmission is one row of the teacher dashboard's recent
// assignment activity
type recentAssignmentSubmission struct {
	AssignmentTitle string    `json:"assignmentTitle"`
	StudentName     string    `json:"studentName"`
	StudentID       string    `json:"studentId"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// recentQuizSubmission is one row of the teacher dashboard's recent quiz
// activity
type recentQuizSubmission struct {
	QuizTitle   string    `json:"quizTitle"`
	StudentName string    `json:"studentName"`
	StudentID   string    `json:"studentId"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// upcomingDeadline is one entry of the student dashboard's merged deadline
// list
type upcomingDeadline struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	DueDate   time.Time `json:"dueDate"`
	Teacher   string    `json:"teacher,omitempty"`
	Submitted bool      `json:"submitted"`
}

const recentSubmissionLimit = 5

// GetTeacherDashboardHandler aggregates the calling teacher's classes,
// assignments, quizzes and submissions into one overview payload
func GetTeacherDashboardHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var teacher models.User
	if err := db.DB.Users.FindOne(ctx, bson.M{"_id": teacherID}).Decode(&teacher); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error retrieving teacher: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	var classes []models.Class
	cursor, err := db.DB.Classes.Find(ctx, bson.M{"teacher": teacherID})
	if err == nil {
		err = cursor.All(ctx, &classes)
	}
	if err != nil {
		log.Printf("Error querying classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var assignments []models.Assignment
	cursor, err = db.DB.Assignments.Find(ctx, bson.M{"createdBy": teacherID})
	if err == nil {
		err = cursor.All(ctx, &assignments)
	}
	if err != nil {
		log.Printf("Error querying assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var quizzes []models.Quiz
	cursor, err = db.DB.Quizzes.Find(ctx, bson.M{"createdBy": teacherID})
	if err == nil {
		err = cursor.All(ctx, &quizzes)
	}
	if err != nil {
		log.Printf("Error querying quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	quizIDs := make([]primitive.ObjectID, 0, len(quizzes))
	quizTitles := make(map[primitive.ObjectID]string, len(quizzes))
	for _, quiz := range quizzes {
		quizIDs = append(quizIDs, quiz.ID)
		quizTitles[quiz.ID] = quiz.Title
	}

	var quizSubmissions []models.QuizSubmission
	if len(quizIDs) > 0 {
		cursor, err = db.DB.QuizSubmissions.Find(ctx, bson.M{"quiz": bson.M{"$in": quizIDs}})
		if err == nil {
			err = cursor.All(ctx, &quizSubmissions)
		}
		if err != nil {
			log.Printf("Error querying quiz submissions: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	departmentStudents, err := db.DB.Users.CountDocuments(ctx, bson.M{
		"role":       models.RoleStudent,
		"department": teacher.Department,
	})
	if err != nil {
		log.Printf("Error counting department students: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Distinct students across all rosters
	enrolledSet := make(map[primitive.ObjectID]struct{})
	for _, class := range classes {
		for _, id := range class.Students {
			enrolledSet[id] = struct{}{}
		}
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	newAssignmentSubs := 0
	totalAssignmentSubs := 0
	for _, a := range assignments {
		totalAssignmentSubs += len(a.Submissions)
		for _, sub := range a.Submissions {
			if sub.SubmittedAt.After(weekAgo) {
				newAssignmentSubs++
			}
		}
	}
	newQuizSubs := 0
	for _, sub := range quizSubmissions {
		if sub.SubmittedAt.After(weekAgo) {
			newQuizSubs++
		}
	}

	upcomingAssignments := 0
	for _, a := range assignments {
		if a.DueDate.After(today) {
			upcomingAssignments++
		}
	}
	upcomingQuizzes := 0
	for _, quiz := range quizzes {
		if quiz.DueDate.After(today) {
			upcomingQuizzes++
		}
	}

	classesOverview := make([]gin.H, 0, len(classes))
	for _, class := range classes {
		classesOverview = append(classesOverview, gin.H{
			"id":           class.ID.Hex(),
			"className":    class.ClassName,
			"courseCode":   class.CourseCode,
			"studentCount": len(class.Students),
			"schedule":     class.Schedule,
		})
	}

	// Load the submitting students once for both recent-activity lists
	var submitterIDs []primitive.ObjectID
	for _, a := range assignments {
		for _, sub := range a.Submissions {
			submitterIDs = append(submitterIDs, sub.Student)
		}
	}
	for _, sub := range quizSubmissions {
		submitterIDs = append(submitterIDs, sub.Student)
	}
	submitters, err := fetchUsers(ctx, submitterIDs)
	if err != nil {
		log.Printf("Error loading submitters: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var recentAssignments []recentAssignmentSubmission
	for _, a := range assignments {
		for _, sub := range a.Submissions {
			row := recentAssignmentSubmission{
				AssignmentTitle: a.Title,
				SubmittedAt:     sub.SubmittedAt,
			}
			if u, ok := submitters[sub.Student]; ok {
				row.StudentName = u.FullName
				row.StudentID = u.StudentID
			}
			recentAssignments = append(recentAssignments, row)
		}
	}
	var recentQuizzes []recentQuizSubmission
	for _, sub := range quizSubmissions {
		row := recentQuizSubmission{
			QuizTitle:   quizTitles[sub.Quiz],
			Score:       sub.Score,
			SubmittedAt: sub.SubmittedAt,
		}
		if u, ok := submitters[sub.Student]; ok {
			row.StudentName = u.FullName
			row.StudentID = u.StudentID
		}
		recentQuizzes = append(recentQuizzes, row)
	}

	// Max possible submissions: every distinct enrolled student submitting
	// every assignment
	possibleSubmissions := len(enrolledSet) * len(assignments)

	c.JSON(http.StatusOK, gin.H{
		"overview": gin.H{
			"totalClasses":       len(classes),
			"totalStudents":      len(enrolledSet),
			"totalAssignments":   len(assignments),
			"totalQuizzes":       len(quizzes),
			"departmentStudents": departmentStudents,
		},
		"recentActivity": gin.H{
			"newSubmissions": gin.H{
				"assignments": newAssignmentSubs,
				"quizzes":     newQuizSubs,
			},
			"upcomingDeadlines": gin.H{
				"assignments": upcomingAssignments,
				"quizzes":     upcomingQuizzes,
			},
		},
		"classesOverview": classesOverview,
		"performanceMetrics": gin.H{
			"assignments": gin.H{
				"total":                len(assignments),
				"submissionRate":       grading.SubmissionRate(totalAssignmentSubs, possibleSubmissions),
				"onTimeSubmissionRate": grading.OnTimeRate(assignments),
			},
			"quizzes": gin.H{
				"total":             len(quizzes),
				"averageScore":      grading.AverageQuizScore(quizSubmissions),
				"participationRate": grading.ParticipationRate(len(quizzes), len(quizSubmissions)),
			},
		},
		"recentSubmissions": gin.H{
			"assignments": grading.Recent(recentAssignments,
				func(r recentAssignmentSubmission) time.Time { return r.SubmittedAt },
				recentSubmissionLimit),
			"quizzes": grading.Recent(recentQuizzes,
				func(r recentQuizSubmission) time.Time { return r.SubmittedAt },
				recentSubmissionLimit),
		},
	})
}

// GetStudentDashboardHandler aggregates the calling student's classes,
// assignments and quizzes into one progress payload
func GetStudentDashboardHandler(c *gin.Context) {
	studentID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var enrolledClasses []models.Class
	cursor, err := db.DB.Classes.Find(ctx, bson.M{"students": studentID, "isActive": true})
	if err == nil {
		err = cursor.All(ctx, &enrolledClasses)
	}
	if err != nil {
		log.Printf("Error querying classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var assignments []models.Assignment
	cursor, err = db.DB.Assignments.Find(ctx, bson.M{})
	if err == nil {
		err = cursor.All(ctx, &assignments)
	}
	if err != nil {
		log.Printf("Error querying assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var quizzes []models.Quiz
	cursor, err = db.DB.Quizzes.Find(ctx, bson.M{"status": models.QuizPublished})
	if err == nil {
		err = cursor.All(ctx, &quizzes)
	}
	if err != nil {
		log.Printf("Error querying quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var quizSubmissions []models.QuizSubmission
	cursor, err = db.DB.QuizSubmissions.Find(ctx, bson.M{"student": studentID})
	if err == nil {
		err = cursor.All(ctx, &quizSubmissions)
	}
	if err != nil {
		log.Printf("Error querying quiz submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	submittedQuizzes := make(map[primitive.ObjectID]models.QuizSubmission, len(quizSubmissions))
	for _, sub := range quizSubmissions {
		submittedQuizzes[sub.Quiz] = sub
	}

	var teacherIDs []primitive.ObjectID
	for _, class := range enrolledClasses {
		teacherIDs = append(teacherIDs, class.Teacher)
	}
	for _, a := range assignments {
		teacherIDs = append(teacherIDs, a.CreatedBy)
	}
	teachers, err := fetchUsers(ctx, teacherIDs)
	if err != nil {
		log.Printf("Error loading teachers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	// Status per assignment and per quiz, through the shared derivation
	assignmentStatuses := grading.Categorize(assignments,
		func(a models.Assignment) grading.Status {
			return grading.DeriveStatus(a.DueDate, now, a.SubmissionFor(studentID) != nil)
		},
		func(a models.Assignment) bool {
			sub := a.SubmissionFor(studentID)
			return sub != nil && grading.IsLate(&sub.SubmittedAt, a.DueDate)
		},
	)
	quizStatuses := grading.Categorize(quizzes,
		func(q models.Quiz) grading.Status {
			_, ok := submittedQuizzes[q.ID]
			return grading.DeriveStatus(q.DueDate, now, ok)
		},
		func(q models.Quiz) bool {
			sub, ok := submittedQuizzes[q.ID]
			return ok && grading.IsLate(&sub.SubmittedAt, q.DueDate)
		},
	)

	recentAssignmentSubs := 0
	for _, a := range assignments {
		if sub := a.SubmissionFor(studentID); sub != nil && sub.SubmittedAt.After(weekAgo) {
			recentAssignmentSubs++
		}
	}
	recentQuizSubs := 0
	for _, sub := range quizSubmissions {
		if sub.SubmittedAt.After(weekAgo) {
			recentQuizSubs++
		}
	}

	distinctTeachers := make(map[primitive.ObjectID]struct{}, len(enrolledClasses))
	classViews := make([]gin.H, 0, len(enrolledClasses))
	for _, class := range enrolledClasses {
		distinctTeachers[class.Teacher] = struct{}{}
		view := gin.H{
			"id":         class.ID.Hex(),
			"className":  class.ClassName,
			"courseCode": class.CourseCode,
			"schedule":   class.Schedule,
		}
		if t, ok := teachers[class.Teacher]; ok {
			view["teacher"] = gin.H{
				"name":       t.FullName,
				"department": t.Department,
			}
		}
		classViews = append(classViews, view)
	}

	deadlines := []upcomingDeadline{}
	upcomingAssignments := 0
	for _, a := range assignments {
		if !a.DueDate.After(today) {
			continue
		}
		submitted := a.SubmissionFor(studentID) != nil
		if !submitted {
			upcomingAssignments++
		}
		entry := upcomingDeadline{
			Type:      "assignment",
			Title:     a.Title,
			DueDate:   a.DueDate,
			Submitted: submitted,
		}
		if t, ok := teachers[a.CreatedBy]; ok {
			entry.Teacher = t.FullName
		}
		deadlines = append(deadlines, entry)
	}
	upcomingQuizzes := 0
	for _, quiz := range quizzes {
		if !quiz.DueDate.After(today) {
			continue
		}
		_, submitted := submittedQuizzes[quiz.ID]
		if !submitted {
			upcomingQuizzes++
		}
		deadlines = append(deadlines, upcomingDeadline{
			Type:      "quiz",
			Title:     quiz.Title,
			DueDate:   quiz.DueDate,
			Submitted: submitted,
		})
	}
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].DueDate.Before(deadlines[j].DueDate)
	})

	c.JSON(http.StatusOK, gin.H{
		"overview": gin.H{
			"totalClasses":     len(enrolledClasses),
			"totalTeachers":    len(distinctTeachers),
			"totalAssignments": len(assignments),
			"totalQuizzes":     len(quizzes),
		},
		"academicProgress": gin.H{
			"assignments": gin.H{
				"total":     assignmentStatuses.Summary.Total,
				"submitted": assignmentStatuses.Summary.Submitted,
				"pending":   assignmentStatuses.Summary.Pending,
				"overdue":   assignmentStatuses.Summary.Overdue,
			},
			"quizzes": gin.H{
				"total":        quizStatuses.Summary.Total,
				"completed":    quizStatuses.Summary.Submitted,
				"pending":      quizStatuses.Summary.Pending,
				"overdue":      quizStatuses.Summary.Overdue,
				"averageScore": grading.AverageQuizScore(quizSubmissions),
			},
		},
		"recentActivity": gin.H{
			"submissions": gin.H{
				"assignments": recentAssignmentSubs,
				"quizzes":     recentQuizSubs,
			},
			"upcomingDeadlines": gin.H{
				"assignments": upcomingAssignments,
				"quizzes":     upcomingQuizzes,
			},
		},
		"enrolledClasses":   classViews,
		"upcomingDeadlines": deadlines,
	})
}
