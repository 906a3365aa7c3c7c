package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", SanitizeEmail("  ADA@Example.COM "))
	assert.Equal(t, "", SanitizeEmail(strings.Repeat("a", MaxEmailLength)+"@example.com"))
}

func TestSanitizePassword(t *testing.T) {
	assert.Equal(t, "correct horse", SanitizePassword(" correct horse "))
	assert.Equal(t, "", SanitizePassword(strings.Repeat("x", MaxPasswordLength+1)))
}

func TestSanitizeDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", SanitizeDisplayName("  Ada  "))
	long := strings.Repeat("n", MaxDisplayNameLength+20)
	assert.Len(t, SanitizeDisplayName(long), MaxDisplayNameLength)
}
