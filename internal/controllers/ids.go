package controllers

import (
	"strings"

	"github.com/google/uuid"
)

// parseRoomID validates a path segment as a room id. Rejecting garbage here
// keeps malformed ids out of the membership queries.
func parseRoomID(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return s, true
}
