package random

import (
	"strings"

	"github.com/google/uuid"
)

// GetUUID returns a random UUID without hyphens.
func GetUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
