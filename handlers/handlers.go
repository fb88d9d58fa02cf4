package handlers

import (
	"context"
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
	"classhub/models"
	"classhub/utils"
)

const (
	maxPhotoSize      = 2 << 20 // 2MB
	maxSubmissionSize = 5 << 20 // 5MB
	requestTimeout    = 10 * time.Second
)

// currentUserID returns the authenticated caller's ObjectID from the context
func currentUserID(c *gin.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.MustGet("userID").(string))
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// RegisterHandler creates a new user account
func RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	// Role-specific required fields
	if req.Role == models.RoleStudent && (req.StudentID == "" || req.YearOfStudy == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student ID and Year of Study are required for students"})
		return
	}
	if req.Role == models.RoleTeacher && req.TeacherID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Teacher ID is required for teachers"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := db.DB.Users.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		log.Printf("Error checking email existence: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing your request"})
		return
	}

	now := time.Now()
	user := models.User{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    hashedPassword,
		Role:        req.Role,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch req.Role {
	case models.RoleStudent:
		user.StudentID = req.StudentID
		user.YearOfStudy = req.YearOfStudy
	case models.RoleTeacher:
		user.TeacherID = req.TeacherID
	}

	if _, err := db.DB.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		log.Printf("Error inserting user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registering user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// GetProfileHandler returns the authenticated user's profile
func GetProfileHandler(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var user models.User
	if err := db.DB.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error retrieving user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	roleInfo := gin.H{}
	switch user.Role {
	case models.RoleStudent:
		roleInfo = gin.H{
			"type":        "Student",
			"studentId":   user.StudentID,
			"yearOfStudy": user.YearOfStudy,
		}
	case models.RoleTeacher:
		roleInfo = gin.H{
			"type":      "Teacher",
			"teacherId": user.TeacherID,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"profile": gin.H{
			"id":          user.ID.Hex(),
			"fullName":    user.FullName,
			"email":       user.Email,
			"role":        user.Role,
			"department":  user.Department,
			"phoneNumber": user.PhoneNumber,
			"photo":       user.Photo,
			"roleInfo":    roleInfo,
			"joinedAt":    user.CreatedAt,
			"lastUpdated": user.UpdatedAt,
		},
	})
}

// UpdateProfileHandler updates the authenticated user's profile, optionally
// with a new profile photo
func UpdateProfileHandler(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}
	role := c.MustGet("role").(string)

	var req models.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		updates["fullName"] = req.FullName
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if req.PhoneNumber != "" {
		updates["phoneNumber"] = req.PhoneNumber
	}
	switch role {
	case models.RoleStudent:
		if req.StudentID != "" {
			updates["studentId"] = req.StudentID
		}
		if req.YearOfStudy != "" {
			updates["yearOfStudy"] = req.YearOfStudy
		}
	case models.RoleTeacher:
		if req.TeacherID != "" {
			updates["teacherId"] = req.TeacherID
		}
	}

	if file, err := c.FormFile("photo"); err == nil {
		if file.Size > maxPhotoSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File size is too large. Max size is 2MB"})
			return
		}
		contentType := file.Header.Get("Content-Type")
		if len(contentType) < 6 || contentType[:6] != "image/" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed!"})
			return
		}
		filename := utils.StoredFilename(file.Filename)
		dest := filepath.Join(config.ConfigInstance.UploadDir, "profiles", filename)
		if err := c.SaveUploadedFile(file, dest); err != nil {
			log.Printf("Error saving profile photo: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading file"})
			return
		}
		updates["photo"] = utils.FileURL(config.ConfigInstance.BaseURL, "profiles", filename)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var user models.User
	err = db.DB.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error updating profile: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// CheckAuthHandler lets the client verify that its token is still valid
func CheckAuthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"userId":        c.MustGet("userID").(string),
		"role":          c.MustGet("role").(string),
	})
}
