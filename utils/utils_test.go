package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("student@university.edu"))
	assert.True(t, ValidateEmail("first.last+tag@example.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.Error(t, ComparePassword(hash, "wrong-pass"))
}

func TestStoredFilename(t *testing.T) {
	name := StoredFilename("my report (final).pdf")
	assert.True(t, strings.HasSuffix(name, "my_report__final_.pdf"))
	assert.NotEqual(t, name, StoredFilename("my report (final).pdf"), "uuid prefix keeps names unique")
}

func TestFileURL(t *testing.T) {
	assert.Equal(t,
		"http://localhost:5000/uploads/assignments/abc.pdf",
		FileURL("http://localhost:5000", "assignments", "abc.pdf"),
	)
	assert.Equal(t, "", FileURL("http://localhost:5000", "assignments", ""))
}
