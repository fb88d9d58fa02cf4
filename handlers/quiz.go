package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"classhub/db"
	"classhub/grading"
	"classhub/models"
)

// quizSubmissionView is the student-facing shape of their graded submission.
// Score, totalScore and percentage come from the snapshot taken at grading
// time, not from the current quiz definition.
type quizSubmissionView struct {
	SubmittedAt time.Time `json:"submittedAt"`
	Score       int       `json:"score"`
	TotalScore  int       `json:"totalScore"`
	Percentage  float64   `json:"percentage"`
}

// studentQuiz is one quiz enriched with the calling student's submission
// state
type studentQuiz struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Subject        string              `json:"subject"`
	Duration       int                 `json:"duration"`
	DueDate        time.Time           `json:"dueDate"`
	TotalQuestions int                 `json:"totalQuestions"`
	CreatedAt      time.Time           `json:"createdAt"`
	Teacher        gin.H               `json:"teacher"`
	Status         grading.Status      `json:"status"`
	Submission     *quizSubmissionView `json:"submission"`
	IsLate         bool                `json:"isLate"`
}

// buildQuestions mints server-side ids for questions and options, mirroring
// embedded-document ids. Questions default to one point.
func buildQuestions(reqs []models.QuestionRequest) []models.Question {
	questions := make([]models.Question, 0, len(reqs))
	for _, q := range reqs {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		opts := make([]models.Option, 0, len(q.Options))
		for _, o := range q.Options {
			opts = append(opts, models.Option{
				ID:        primitive.NewObjectID(),
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			})
		}
		questions = append(questions, models.Question{
			ID:           primitive.NewObjectID(),
			QuestionText: q.QuestionText,
			Options:      opts,
			Points:       points,
		})
	}
	return questions
}

// sanitizedQuestions strips the correct-answer flags for student consumption
func sanitizedQuestions(questions []models.Question) []gin.H {
	views := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		opts := make([]gin.H, 0, len(q.Options))
		for _, o := range q.Options {
			opts = append(opts, gin.H{"id": o.ID.Hex(), "text": o.Text})
		}
		views = append(views, gin.H{
			"id":           q.ID.Hex(),
			"questionText": q.QuestionText,
			"points":       q.Points,
			"options":      opts,
		})
	}
	return views
}

// CreateQuizHandler creates a new quiz owned by the calling teacher
func CreateQuizHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var req models.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.QuizPublished
	}

	questions := buildQuestions(req.Questions)
	now := time.Now()
	quiz := models.Quiz{
		Title:          req.Title,
		Subject:        req.Subject,
		Duration:       req.Duration,
		DueDate:        req.DueDate,
		Questions:      questions,
		CreatedBy:      teacherID,
		Status:         status,
		TotalQuestions: len(questions),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := db.DB.Quizzes.InsertOne(ctx, quiz)
	if err != nil {
		log.Printf("Error inserting quiz: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating quiz"})
		return
	}
	quiz.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Quiz created successfully",
		"quiz":    quiz,
	})
}

// GetTeacherQuizzesHandler lists the calling teacher's quizzes
func GetTeacherQuizzesHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := db.DB.Quizzes.Find(ctx, bson.M{"createdBy": teacherID})
	if err != nil {
		log.Printf("Error querying quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer cursor.Close(ctx)

	quizzes := []models.Quiz{}
	if err := cursor.All(ctx, &quizzes); err != nil {
		log.Printf("Error decoding quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetAvailableQuizzesHandler lists published quizzes that are still open
func GetAvailableQuizzesHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := db.DB.Quizzes.Find(ctx, bson.M{
		"status":  models.QuizPublished,
		"dueDate": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		log.Printf("Error querying quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer cursor.Close(ctx)

	var quizzes []models.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		log.Printf("Error decoding quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]gin.H, 0, len(quizzes))
	for _, quiz := range quizzes {
		views = append(views, gin.H{
			"id":             quiz.ID.Hex(),
			"title":          quiz.Title,
			"subject":        quiz.Subject,
			"duration":       quiz.Duration,
			"dueDate":        quiz.DueDate,
			"totalQuestions": quiz.TotalQuestions,
			"createdAt":      quiz.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, views)
}

// GetStudentQuizzesHandler lists published quizzes for the calling student,
// categorized by submission status and carrying graded scores
func GetStudentQuizzesHandler(c *gin.Context) {
	studentID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := db.DB.Quizzes.Find(ctx, bson.M{"status": models.QuizPublished},
		options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}))
	if err != nil {
		log.Printf("Error querying quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer cursor.Close(ctx)

	var quizzes []models.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		log.Printf("Error decoding quizzes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	subCursor, err := db.DB.QuizSubmissions.Find(ctx, bson.M{"student": studentID})
	if err != nil {
		log.Printf("Error querying quiz submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer subCursor.Close(ctx)

	var submissions []models.QuizSubmission
	if err := subCursor.All(ctx, &submissions); err != nil {
		log.Printf("Error decoding quiz submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	submissionByQuiz := make(map[primitive.ObjectID]models.QuizSubmission, len(submissions))
	for _, sub := range submissions {
		submissionByQuiz[sub.Quiz] = sub
	}

	var teacherIDs []primitive.ObjectID
	for _, quiz := range quizzes {
		teacherIDs = append(teacherIDs, quiz.CreatedBy)
	}
	teachers, err := fetchUsers(ctx, teacherIDs)
	if err != nil {
		log.Printf("Error loading teachers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	now := time.Now()
	processed := make([]studentQuiz, 0, len(quizzes))
	var submitted []models.QuizSubmission
	for _, quiz := range quizzes {
		item := studentQuiz{
			ID:             quiz.ID.Hex(),
			Title:          quiz.Title,
			Subject:        quiz.Subject,
			Duration:       quiz.Duration,
			DueDate:        quiz.DueDate,
			TotalQuestions: quiz.TotalQuestions,
			CreatedAt:      quiz.CreatedAt,
		}
		if t, ok := teachers[quiz.CreatedBy]; ok {
			item.Teacher = teacherInfo(t)
		}
		if sub, ok := submissionByQuiz[quiz.ID]; ok {
			item.Submission = &quizSubmissionView{
				SubmittedAt: sub.SubmittedAt,
				Score:       sub.Score,
				TotalScore:  sub.TotalScore,
				Percentage:  sub.Percentage,
			}
			item.IsLate = grading.IsLate(&sub.SubmittedAt, quiz.DueDate)
			submitted = append(submitted, sub)
		}
		item.Status = grading.DeriveStatus(quiz.DueDate, now, item.Submission != nil)
		processed = append(processed, item)
	}

	categorized := grading.Categorize(processed,
		func(q studentQuiz) grading.Status { return q.Status },
		func(q studentQuiz) bool { return q.IsLate },
	)

	c.JSON(http.StatusOK, gin.H{
		"submitted": categorized.Submitted,
		"pending":   categorized.Pending,
		"overdue":   categorized.Overdue,
		"summary": gin.H{
			"total":           categorized.Summary.Total,
			"submitted":       categorized.Summary.Submitted,
			"pending":         categorized.Summary.Pending,
			"overdue":         categorized.Summary.Overdue,
			"lateSubmissions": categorized.Summary.LateSubmissions,
			"averageScore":    grading.AverageQuizScore(submitted),
		},
	})
}

// GetQuizByIDHandler returns one quiz; the shape depends on the caller's
// role. Students never see the questions once submitted or past due, and
// never see the correct-answer flags. Teachers get the full quiz with every
// submission.
func GetQuizByIDHandler(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}
	role := c.MustGet("role").(string)

	quizID, err := primitive.ObjectIDFromHex(c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var quiz models.Quiz
	if err := db.DB.Quizzes.FindOne(ctx, bson.M{"_id": quizID}).Decode(&quiz); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		} else {
			log.Printf("Error querying quiz: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	teachers, err := fetchUsers(ctx, []primitive.ObjectID{quiz.CreatedBy})
	if err != nil {
		log.Printf("Error loading teacher: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	teacherView := gin.H{}
	if t, ok := teachers[quiz.CreatedBy]; ok {
		teacherView = teacherInfo(t)
	}

	if role == models.RoleStudent {
		var submission models.QuizSubmission
		hasSubmission := true
		err := db.DB.QuizSubmissions.FindOne(ctx, bson.M{"quiz": quiz.ID, "student": userID}).Decode(&submission)
		if err != nil {
			if err != mongo.ErrNoDocuments {
				log.Printf("Error querying quiz submission: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
			hasSubmission = false
		}

		now := time.Now()
		status := grading.DeriveStatus(quiz.DueDate, now, hasSubmission)

		view := gin.H{
			"id":             quiz.ID.Hex(),
			"title":          quiz.Title,
			"subject":        quiz.Subject,
			"duration":       quiz.Duration,
			"dueDate":        quiz.DueDate,
			"totalQuestions": quiz.TotalQuestions,
			"createdAt":      quiz.CreatedAt,
			"teacher":        teacherView,
			"status":         status,
			"isLate":         false,
		}
		if hasSubmission {
			view["submission"] = quizSubmissionView{
				SubmittedAt: submission.SubmittedAt,
				Score:       submission.Score,
				TotalScore:  submission.TotalScore,
				Percentage:  submission.Percentage,
			}
			view["isLate"] = grading.IsLate(&submission.SubmittedAt, quiz.DueDate)
		} else {
			view["submission"] = nil
		}
		// Questions are only handed out while the quiz is still open for
		// this student
		if !hasSubmission && !now.After(quiz.DueDate) {
			view["questions"] = sanitizedQuestions(quiz.Questions)
		}

		c.JSON(http.StatusOK, view)
		return
	}

	// Teacher view: ownership required
	if quiz.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Not your quiz."})
		return
	}

	subCursor, err := db.DB.QuizSubmissions.Find(ctx, bson.M{"quiz": quiz.ID})
	if err != nil {
		log.Printf("Error querying quiz submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer subCursor.Close(ctx)

	var submissions []models.QuizSubmission
	if err := subCursor.All(ctx, &submissions); err != nil {
		log.Printf("Error decoding quiz submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var studentIDs []primitive.ObjectID
	for _, sub := range submissions {
		studentIDs = append(studentIDs, sub.Student)
	}
	students, err := fetchUsers(ctx, studentIDs)
	if err != nil {
		log.Printf("Error loading students: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	subViews := make([]gin.H, 0, len(submissions))
	for _, sub := range submissions {
		view := gin.H{
			"submittedAt": sub.SubmittedAt,
			"score":       sub.Score,
			"totalScore":  sub.TotalScore,
			"percentage":  sub.Percentage,
			"answers":     sub.Answers,
		}
		if u, ok := students[sub.Student]; ok {
			view["student"] = studentInfo(u)
		}
		subViews = append(subViews, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             quiz.ID.Hex(),
		"title":          quiz.Title,
		"subject":        quiz.Subject,
		"duration":       quiz.Duration,
		"dueDate":        quiz.DueDate,
		"status":         quiz.Status,
		"questions":      quiz.Questions,
		"totalQuestions": quiz.TotalQuestions,
		"teacher":        teacherView,
		"createdAt":      quiz.CreatedAt,
		"submissions":    subViews,
	})
}

// UpdateQuizHandler applies a partial update to one of the calling teacher's
// quizzes. Replacing the questions re-mints their ids; existing submissions
// keep the scores they were graded with.
func UpdateQuizHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	quizID, err := primitive.ObjectIDFromHex(c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	var req models.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Subject != nil {
		updates["subject"] = *req.Subject
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.DueDate != nil {
		updates["dueDate"] = *req.DueDate
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Questions != nil {
		questions := buildQuestions(req.Questions)
		updates["questions"] = questions
		updates["totalQuestions"] = len(questions)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var quiz models.Quiz
	err = db.DB.Quizzes.FindOneAndUpdate(
		ctx,
		bson.M{"_id": quizID, "createdBy": teacherID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&quiz)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		} else {
			log.Printf("Error updating quiz: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quiz updated successfully",
		"quiz":    quiz,
	})
}

// DeleteQuizHandler deletes one of the calling teacher's quizzes along with
// its submissions
func DeleteQuizHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	quizID, err := primitive.ObjectIDFromHex(c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := db.DB.Quizzes.DeleteOne(ctx, bson.M{"_id": quizID, "createdBy": teacherID})
	if err != nil {
		log.Printf("Error deleting quiz: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	if _, err := db.DB.QuizSubmissions.DeleteMany(ctx, bson.M{"quiz": quizID}); err != nil {
		log.Printf("Error deleting quiz submissions: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

// SubmitQuizHandler grades and stores a student's quiz submission. The
// unique (quiz, student) index keeps this a one-shot operation.
func SubmitQuizHandler(c *gin.Context) {
	studentID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	quizID, err := primitive.ObjectIDFromHex(c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	var req models.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var quiz models.Quiz
	if err := db.DB.Quizzes.FindOne(ctx, bson.M{"_id": quizID}).Decode(&quiz); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		} else {
			log.Printf("Error querying quiz: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	// Unparseable ids grade the same as stale ones: zero contribution
	answers := make([]models.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		questionID, err := primitive.ObjectIDFromHex(a.QuestionID)
		if err != nil {
			continue
		}
		optionID, err := primitive.ObjectIDFromHex(a.SelectedOption)
		if err != nil {
			continue
		}
		answers = append(answers, models.Answer{
			QuestionID:     questionID,
			SelectedOption: optionID,
		})
	}

	score := grading.Grade(&quiz, answers)
	totalScore := grading.TotalPoints(&quiz)
	now := time.Now()

	submission := models.QuizSubmission{
		Quiz:        quiz.ID,
		Student:     studentID,
		Answers:     answers,
		Score:       score,
		TotalScore:  totalScore,
		Percentage:  grading.Percentage(score, totalScore),
		Status:      "completed",
		SubmittedAt: now,
		CreatedAt:   now,
	}

	result, err := db.DB.QuizSubmissions.InsertOne(ctx, submission)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Quiz already submitted"})
			return
		}
		log.Printf("Error inserting quiz submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting quiz"})
		return
	}
	submission.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Quiz submitted successfully",
		"submission": submission,
	})
}
