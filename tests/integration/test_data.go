package integration

import (
	"fmt"
	"time"
)

// formatID renders a JSON-decoded numeric id as a path segment.
func formatID(id float64) string {
	return fmt.Sprintf("%d", int64(id))
}

// TestUser generates unique test user credentials using a timestamp.
func TestUser(suffix string) (email, password string) {
	ts := time.Now().UnixNano()
	email = fmt.Sprintf("test-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}
