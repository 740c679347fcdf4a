package id

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a unique 16-character hex ID for sessions and imports.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
