package handler

import "github.com/google/uuid"

// parseUUID parses a path or query parameter into a UUID
func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
