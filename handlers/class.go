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
	"classhub/models"
)

const defaultMaxStudents = 50

// CreateClassHandler creates a new class owned by the calling teacher
func CreateClassHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	maxStudents := req.MaxStudents
	if maxStudents <= 0 {
		maxStudents = defaultMaxStudents
	}

	now := time.Now()
	class := models.Class{
		ClassName:    req.ClassName,
		CourseCode:   req.CourseCode,
		Department:   req.Department,
		Teacher:      teacherID,
		Students:     []primitive.ObjectID{},
		Schedule:     req.Schedule,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		Description:  req.Description,
		MaxStudents:  maxStudents,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := db.DB.Classes.InsertOne(ctx, class)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A class with this course code already exists for this semester"})
			return
		}
		log.Printf("Error inserting class: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating class"})
		return
	}
	class.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Class created successfully",
		"class":   class,
	})
}

// GetTeacherClassesHandler lists the calling teacher's classes with their
// rosters
func GetTeacherClassesHandler(c *gin.Context) {
	teacherID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := db.DB.Classes.Find(ctx, bson.M{"teacher": teacherID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("Error querying classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer cursor.Close(ctx)

	var classes []models.Class
	if err := cursor.All(ctx, &classes); err != nil {
		log.Printf("Error decoding classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var studentIDs []primitive.ObjectID
	for _, class := range classes {
		studentIDs = append(studentIDs, class.Students...)
	}
	students, err := fetchUsers(ctx, studentIDs)
	if err != nil {
		log.Printf("Error loading rosters: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	totalStudents := 0
	activeClasses := 0
	classViews := make([]gin.H, 0, len(classes))
	for _, class := range classes {
		totalStudents += len(class.Students)
		if class.IsActive {
			activeClasses++
		}
		roster := make([]gin.H, 0, len(class.Students))
		for _, id := range class.Students {
			if u, ok := students[id]; ok {
				roster = append(roster, studentInfo(u))
			}
		}
		classViews = append(classViews, gin.H{
			"id":           class.ID.Hex(),
			"className":    class.ClassName,
			"courseCode":   class.CourseCode,
			"department":   class.Department,
			"schedule":     class.Schedule,
			"semester":     class.Semester,
			"academicYear": class.AcademicYear,
			"description":  class.Description,
			"maxStudents":  class.MaxStudents,
			"isActive":     class.IsActive,
			"students":     roster,
			"createdAt":    class.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": classViews,
		"summary": gin.H{
			"totalClasses":  len(classes),
			"totalStudents": totalStudents,
			"activeClasses": activeClasses,
		},
	})
}

// GetStudentClassesHandler lists the calling student's enrolled classes and
// the active classes still open for enrollment
func GetStudentClassesHandler(c *gin.Context) {
	studentID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := db.DB.Classes.Find(ctx, bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("Error querying classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer cursor.Close(ctx)

	var classes []models.Class
	if err := cursor.All(ctx, &classes); err != nil {
		log.Printf("Error decoding classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var teacherIDs []primitive.ObjectID
	for _, class := range classes {
		teacherIDs = append(teacherIDs, class.Teacher)
	}
	teachers, err := fetchUsers(ctx, teacherIDs)
	if err != nil {
		log.Printf("Error loading teachers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	classView := func(class models.Class) gin.H {
		view := gin.H{
			"id":           class.ID.Hex(),
			"className":    class.ClassName,
			"courseCode":   class.CourseCode,
			"department":   class.Department,
			"schedule":     class.Schedule,
			"semester":     class.Semester,
			"academicYear": class.AcademicYear,
			"description":  class.Description,
			"maxStudents":  class.MaxStudents,
			"enrolledCount": len(class.Students),
			"createdAt":    class.CreatedAt,
		}
		if t, ok := teachers[class.Teacher]; ok {
			view["teacher"] = teacherInfo(t)
		}
		return view
	}

	enrolled := []gin.H{}
	available := []gin.H{}
	for _, class := range classes {
		switch {
		case class.IsStudentEnrolled(studentID):
			enrolled = append(enrolled, classView(class))
		case !class.IsFull():
			available = append(available, classView(class))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"enrolled":  enrolled,
		"available": available,
		"summary": gin.H{
			"totalEnrolled":  len(enrolled),
			"totalAvailable": len(available),
		},
	})
}

// GetClassByIDHandler returns one class with its teacher and roster
func GetClassByIDHandler(c *gin.Context) {
	classID, err := primitive.ObjectIDFromHex(c.Param("classId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var class models.Class
	if err := db.DB.Classes.FindOne(ctx, bson.M{"_id": classID}).Decode(&class); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		} else {
			log.Printf("Error querying class: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	users, err := fetchUsers(ctx, append([]primitive.ObjectID{class.Teacher}, class.Students...))
	if err != nil {
		log.Printf("Error loading class members: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	roster := make([]gin.H, 0, len(class.Students))
	for _, id := range class.Students {
		if u, ok := users[id]; ok {
			roster = append(roster, studentInfo(u))
		}
	}

	view := gin.H{
		"id":           class.ID.Hex(),
		"className":    class.ClassName,
		"courseCode":   class.CourseCode,
		"department":   class.Department,
		"schedule":     class.Schedule,
		"semester":     class.Semester,
		"academicYear": class.AcademicYear,
		"description":  class.Description,
		"maxStudents":  class.MaxStudents,
		"isActive":     class.IsActive,
		"students":     roster,
		"createdAt":    class.CreatedAt,
	}
	if t, ok := users[class.Teacher]; ok {
		view["teacher"] = teacherInfo(t)
	}

	c.JSON(http.StatusOK, view)
}

// EnrollStudentHandler adds the calling student to a class roster. The guard
// conditions (active, not full, not already enrolled) are part of the update
// filter so concurrent enrollments cannot overshoot capacity.
func EnrollStudentHandler(c *gin.Context) {
	studentID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	classID, err := primitive.ObjectIDFromHex(c.Param("classId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := db.DB.Classes.UpdateOne(ctx,
		bson.M{
			"_id":      classID,
			"isActive": true,
			"students": bson.M{"$ne": studentID},
			"$expr":    bson.M{"$lt": bson.A{bson.M{"$size": "$students"}, "$maxStudents"}},
		},
		bson.M{
			"$addToSet": bson.M{"students": studentID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		log.Printf("Error enrolling student: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if result.MatchedCount == 0 {
		// Figure out which guard failed
		var class models.Class
		err := db.DB.Classes.FindOne(ctx, bson.M{"_id": classID}).Decode(&class)
		switch {
		case err == mongo.ErrNoDocuments:
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		case err != nil:
			log.Printf("Error querying class: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		case class.IsStudentEnrolled(studentID):
			c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled in this class"})
		case !class.IsActive:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Class is not active"})
		case class.IsFull():
			c.JSON(http.StatusBadRequest, gin.H{"error": "Class is full"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to enroll in this class"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enrolled successfully"})
}
