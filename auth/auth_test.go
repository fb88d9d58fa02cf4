package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"classhub/config"
	"classhub/models"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.ConfigInstance = &config.Config{JWTSecret: testSecret}

	r := gin.New()
	protected := r.Group("/api")
	protected.Use(AuthMiddleware())
	protected.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.MustGet("userID"),
			"role":   c.MustGet("role"),
		})
	})
	protected.GET("/teacher", TeacherOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	protected.GET("/student", StudentOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func signToken(t *testing.T, userID, role string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signToken() failed: %v", err)
	}
	return token
}

func request(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := setupRouter(t)
	rec := request(r, "/api/ping", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	r := setupRouter(t)
	rec := request(r, "/api/ping", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	r := setupRouter(t)
	token := signToken(t, "abc123", models.RoleStudent, time.Now().Add(-time.Hour))
	rec := request(r, "/api/ping", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	r := setupRouter(t)
	token := signToken(t, "abc123", models.RoleTeacher, time.Now().Add(time.Hour))
	rec := request(r, "/api/ping", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "abc123")
	assert.Contains(t, rec.Body.String(), models.RoleTeacher)
}

func TestAuthMiddlewareUnknownRole(t *testing.T) {
	r := setupRouter(t)
	token := signToken(t, "abc123", "admin", time.Now().Add(time.Hour))
	rec := request(r, "/api/ping", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGuards(t *testing.T) {
	r := setupRouter(t)
	teacherToken := signToken(t, "t1", models.RoleTeacher, time.Now().Add(time.Hour))
	studentToken := signToken(t, "s1", models.RoleStudent, time.Now().Add(time.Hour))

	assert.Equal(t, http.StatusOK, request(r, "/api/teacher", teacherToken).Code)
	assert.Equal(t, http.StatusForbidden, request(r, "/api/teacher", studentToken).Code)
	assert.Equal(t, http.StatusOK, request(r, "/api/student", studentToken).Code)
	assert.Equal(t, http.StatusForbidden, request(r, "/api/student", teacherToken).Code)
}
