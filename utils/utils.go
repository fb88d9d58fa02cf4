package utils

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// ValidateEmail checks if the email format is valid
func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares a password with its hash
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// StoredFilename sanitizes an uploaded filename and prefixes it with a UUID
// so concurrent uploads of the same name never collide
func StoredFilename(original string) string {
	sanitized := filenameSanitizer.ReplaceAllString(original, "_")
	return fmt.Sprintf("%s-%s", uuid.NewString(), sanitized)
}

// FileURL builds the public URL of an uploaded file
func FileURL(baseURL, subdir, filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("%s/uploads/%s/%s", baseURL, subdir, filename)
}
