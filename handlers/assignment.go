package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"classhub/config"
	"classhub/db"
	"classhub/grading"
	"classhub/models"
	"classhub/utils"
)

// assignmentSubmissionView is the student-facing shape of their own submission
type assignmentSubmissionView struct {
	SubmittedAt time.Time `json:"submittedAt"`
	FileURL     string    `json:"fileUrl"`
}

// studentAssignment is one assignment enriched with the calling student's
// submission state
type studentAssignment struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Subject     string                    `json:"subject"`
	Description string                    `json:"description"`
	DueDate     time.Time                 `json:"dueDate"`
	CreatedAt   time.Time                 `json:"createdAt"`
	Teacher     gin.H                     `json:"teacher"`
	Status      grading.Status            `json:"status"`
	Submission  *assignmentSubmissionView `json:"submission"`
	IsLate      bool                      `json:"isLate"`
}

// CreateAssignmentHandler creates a new assignment owned by the calling
// teacher
func CreateAssignmentHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	now := time.Now()
	assignment := models.Assignment{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedBy:   teacherID,
		Submissions: []models.AssignmentSubmission{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := db.DB.Assignments.InsertOne(ctx, assignment)
	if err != nil {
		log.Printf("Error inserting assignment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating assignment"})
		return
	}
	assignment.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Assignment created successfully",
		"assignment": assignment,
	})
}

// GetTeacherAssignmentsHandler lists the calling teacher's assignments with
// all submissions and the submitting students' details
func GetTeacherAssignmentsHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := db.DB.Assignments.Find(ctx, bson.M{"createdBy": teacherID})
	if err != nil {
		log.Printf("Error querying assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer cursor.Close(ctx)

	var assignments []models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		log.Printf("Error decoding assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var studentIDs []primitive.ObjectID
	for _, a := range assignments {
		for _, sub := range a.Submissions {
			studentIDs = append(studentIDs, sub.Student)
		}
	}
	students, err := fetchUsers(ctx, studentIDs)
	if err != nil {
		log.Printf("Error loading students: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]gin.H, 0, len(assignments))
	for _, a := range assignments {
		subs := make([]gin.H, 0, len(a.Submissions))
		for _, sub := range a.Submissions {
			view := gin.H{
				"submissionFile": sub.SubmissionFile,
				"submittedAt":    sub.SubmittedAt,
				"isLate":         grading.IsLate(&sub.SubmittedAt, a.DueDate),
			}
			if u, ok := students[sub.Student]; ok {
				view["student"] = studentInfo(u)
			}
			subs = append(subs, view)
		}
		views = append(views, gin.H{
			"id":          a.ID.Hex(),
			"title":       a.Title,
			"subject":     a.Subject,
			"description": a.Description,
			"dueDate":     a.DueDate,
			"createdAt":   a.CreatedAt,
			"submissions": subs,
		})
	}

	c.JSON(http.StatusOK, views)
}

// GetStudentAssignmentsHandler lists all assignments for the calling student,
// categorized by submission status
func GetStudentAssignmentsHandler(c *gin.Context) {
	studentID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := db.DB.Assignments.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}))
	if err != nil {
		log.Printf("Error querying assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer cursor.Close(ctx)

	var assignments []models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		log.Printf("Error decoding assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var teacherIDs []primitive.ObjectID
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
	processed := make([]studentAssignment, 0, len(assignments))
	for _, a := range assignments {
		item := studentAssignment{
			ID:          a.ID.Hex(),
			Title:       a.Title,
			Subject:     a.Subject,
			Description: a.Description,
			DueDate:     a.DueDate,
			CreatedAt:   a.CreatedAt,
		}
		if t, ok := teachers[a.CreatedBy]; ok {
			item.Teacher = teacherInfo(t)
		}
		if sub := a.SubmissionFor(studentID); sub != nil {
			item.Submission = &assignmentSubmissionView{
				SubmittedAt: sub.SubmittedAt,
				FileURL:     sub.SubmissionFile,
			}
			item.IsLate = grading.IsLate(&sub.SubmittedAt, a.DueDate)
		}
		item.Status = grading.DeriveStatus(a.DueDate, now, item.Submission != nil)
		processed = append(processed, item)
	}

	categorized := grading.Categorize(processed,
		func(a studentAssignment) grading.Status { return a.Status },
		func(a studentAssignment) bool { return a.IsLate },
	)

	c.JSON(http.StatusOK, categorized)
}

// SubmitAssignmentHandler stores a student's PDF submission. Resubmitting
// replaces the stored file reference and timestamp; the unique-per-student
// shape of the submissions array is kept by the two-step guarded update.
func SubmitAssignmentHandler(c *gin.Context) {
	studentID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(c.Param("assignmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	file, err := c.FormFile("submission")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a PDF file"})
		return
	}
	if file.Size > maxSubmissionSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size is too large. Max size is 5MB"})
		return
	}
	if file.Header.Get("Content-Type") != "application/pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed!"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var assignment models.Assignment
	if err := db.DB.Assignments.FindOne(ctx, bson.M{"_id": assignmentID}).Decode(&assignment); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		} else {
			log.Printf("Error querying assignment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	now := time.Now()
	if now.After(assignment.DueDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignment submission deadline has passed"})
		return
	}

	filename := utils.StoredFilename(file.Filename)
	dest := filepath.Join(config.ConfigInstance.UploadDir, "assignments", filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		log.Printf("Error saving submission file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading file"})
		return
	}
	fileURL := utils.FileURL(config.ConfigInstance.BaseURL, "assignments", filename)

	// Overwrite an existing submission in place, otherwise append a new one
	result, err := db.DB.Assignments.UpdateOne(ctx,
		bson.M{"_id": assignmentID, "submissions.student": studentID},
		bson.M{"$set": bson.M{
			"submissions.$.submissionFile": fileURL,
			"submissions.$.submittedAt":    now,
			"updatedAt":                    now,
		}},
	)
	if err != nil {
		log.Printf("Error updating submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting assignment"})
		return
	}
	if result.MatchedCount == 0 {
		_, err = db.DB.Assignments.UpdateOne(ctx,
			bson.M{"_id": assignmentID, "submissions.student": bson.M{"$ne": studentID}},
			bson.M{
				"$push": bson.M{"submissions": models.AssignmentSubmission{
					Student:        studentID,
					SubmissionFile: fileURL,
					SubmittedAt:    now,
				}},
				"$set": bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			log.Printf("Error inserting submission: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting assignment"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assignment submitted successfully",
		"submission": gin.H{
			"fileName":    file.Filename,
			"submittedAt": now,
			"fileUrl":     fileURL,
		},
	})
}
