package session

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// DefaultID is used when a caller does not name a session.
const DefaultID = "default"

// MaxIDLength is the maximum session identifier length in bytes.
const MaxIDLength = 128

// Info summarises one session.
type Info struct {
	Documents int
	LastQuery string
	UpdatedAt time.Time
}

// NormalizeID trims the identifier and substitutes DefaultID for a blank one.
func NormalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultID, nil
	}
	if len(id) > MaxIDLength {
		return "", fmt.Errorf("session ID too long (max %d): %w", MaxIDLength, domain.ErrInvalidSession)
	}
	if !utf8.ValidString(id) {
		return "", fmt.Errorf("session ID must be valid UTF-8: %w", domain.ErrInvalidSession)
	}
	return id, nil
}
