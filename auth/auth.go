package auth

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"classhub/config"
	"classhub/db"
	"classhub/models"
)

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.DB.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		} else {
			log.Printf("Error querying user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.ConfigInstance.JWTSecret))
	if err != nil {
		log.Printf("Error signing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	userInfo := gin.H{
		"id":          user.ID.Hex(),
		"email":       user.Email,
		"role":        user.Role,
		"fullName":    user.FullName,
		"department":  user.Department,
		"phoneNumber": user.PhoneNumber,
	}
	switch user.Role {
	case models.RoleStudent:
		userInfo["studentId"] = user.StudentID
		userInfo["yearOfStudy"] = user.YearOfStudy
	case models.RoleTeacher:
		userInfo["teacherId"] = user.TeacherID
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  userInfo,
	})
}

// AuthMiddleware verifies the JWT token and stores the caller's identity in
// the request context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
			tokenString = tokenString[7:]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.ConfigInstance.JWTSecret), nil
		})

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		role, ok := claims["role"].(string)
		if !ok || (role != models.RoleTeacher && role != models.RoleStudent) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid role"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

// TeacherOnly rejects any caller whose token does not carry the teacher role
func TeacherOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.MustGet("role").(string) != models.RoleTeacher {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Teachers only."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// StudentOnly rejects any caller whose token does not carry the student role
func StudentOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.MustGet("role").(string) != models.RoleStudent {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Students only."})
			c.Abort()
			return
		}
		c.Next()
	}
}
